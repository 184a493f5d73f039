package memo

import "context"

// Wrap memoizes a one-argument function through the given cache. The
// returned function derives its key from the argument alone, so wrapping
// two different computations over the same cache requires distinct caches
// or embedding a discriminator in the argument.
func Wrap[A, R any](c *Cache, fn func(ctx context.Context, arg A) (R, error)) func(ctx context.Context, arg A) (R, error) {
	return func(ctx context.Context, arg A) (R, error) {
		v, err := c.Do(ctx, []any{arg}, nil, func(ctx context.Context) (any, error) {
			return fn(ctx, arg)
		})
		if err != nil {
			var zero R
			return zero, err
		}
		return assertValue[R](v)
	}
}

// assertValue narrows a cached value to the wrapper's result type. A nil
// value has no dynamic type to assert and is the zero R, which arises when
// the computation legitimately returned a nil interface or pointer.
func assertValue[R any](v any) (R, error) {
	var zero R
	if v == nil {
		return zero, nil
	}
	r, ok := v.(R)
	if !ok {
		return zero, ErrValueType
	}
	return r, nil
}

// Wrap2 memoizes a two-argument function through the given cache.
func Wrap2[A, B, R any](c *Cache, fn func(ctx context.Context, a A, b B) (R, error)) func(ctx context.Context, a A, b B) (R, error) {
	return func(ctx context.Context, a A, b B) (R, error) {
		v, err := c.Do(ctx, []any{a, b}, nil, func(ctx context.Context) (any, error) {
			return fn(ctx, a, b)
		})
		if err != nil {
			var zero R
			return zero, err
		}
		return assertValue[R](v)
	}
}
