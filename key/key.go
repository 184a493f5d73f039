package key

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

// ErrUncacheable is returned by Build when an argument supports neither
// deterministic hashing nor equality comparison. Callers should treat it as
// a signal to bypass the cache for that call, not as a failure of the call.
var ErrUncacheable = errors.New("key: arguments support neither hashing nor equality")

// Pair is a single canonicalized keyword argument.
type Pair struct {
	Name  string
	Value any
}

// Key identifies one call signature.
//
// A Key is one of two variants. Hashable keys carry a precomputed digest
// and are looked up in O(1) via a hash index. Structural keys carry a raw
// snapshot of the arguments and are compared by deep equality against every
// stored structural key, an O(m) scan that is the documented cost of
// supporting arbitrary argument shapes.
type Key struct {
	digest     string
	structural bool
	args       []any
	kwargs     []Pair
}

// Build derives a Key from a call's positional and keyword arguments.
//
// Keyword arguments are sorted by name first, so call-order differences
// never change identity. Two signatures that differ only in argument type
// (int 3 vs float64 3) produce different keys.
//
// Contract:
// - Determinism: identical signatures always produce equal keys.
// - Errors: returns ErrUncacheable if any argument contains a func, chan,
//   or unsafe.Pointer anywhere in its value; such calls cannot be keyed.
func Build(args []any, kwargs map[string]any) (Key, error) {
	pairs := canonicalize(kwargs)

	worst := classHashable
	for _, a := range args {
		worst = worst.merge(classify(reflect.ValueOf(a), 0))
	}
	for _, p := range pairs {
		worst = worst.merge(classify(reflect.ValueOf(p.Value), 0))
	}

	switch worst {
	case classUnsupported:
		return Key{}, ErrUncacheable
	case classStructural:
		return Key{
			structural: true,
			args:       snapshot(args),
			kwargs:     pairs,
		}, nil
	default:
		return Key{
			digest: digest(args, pairs),
			args:   snapshot(args),
			kwargs: pairs,
		}, nil
	}
}

// canonicalize sorts keyword arguments by name.
func canonicalize(kwargs map[string]any) []Pair {
	if len(kwargs) == 0 {
		return nil
	}
	pairs := make([]Pair, 0, len(kwargs))
	for name, v := range kwargs {
		pairs = append(pairs, Pair{Name: name, Value: v})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Name < pairs[j].Name })
	return pairs
}

func snapshot(args []any) []any {
	if len(args) == 0 {
		return nil
	}
	cp := make([]any, len(args))
	copy(cp, args)
	return cp
}

// Structural reports whether the key is compared by deep equality rather
// than by digest.
func (k Key) Structural() bool {
	return k.structural
}

// Digest returns the canonical digest for a hashable key. It is empty for
// structural keys.
func (k Key) Digest() string {
	return k.digest
}

// Equal reports whether two keys identify the same call signature.
// Hashable keys compare by digest; structural keys compare by deep
// equality over the argument snapshots. Keys of different variants are
// never equal.
func (k Key) Equal(o Key) bool {
	if k.structural != o.structural {
		return false
	}
	if !k.structural {
		return k.digest == o.digest
	}
	return reflect.DeepEqual(k.args, o.args) && reflect.DeepEqual(k.kwargs, o.kwargs)
}

// String returns a short identifier suitable for logging. Structural keys
// have no digest, so only their shape is reported.
func (k Key) String() string {
	if k.structural {
		return fmt.Sprintf("structural(%d args, %d kwargs)", len(k.args), len(k.kwargs))
	}
	if len(k.digest) > 16 {
		return "memo:" + k.digest[:16]
	}
	return "memo:" + k.digest
}
