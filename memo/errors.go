package memo

import "errors"

// Configuration errors, surfaced by New and never recovered.
var (
	// ErrInvalidMaxSize indicates a non-positive maximum size.
	ErrInvalidMaxSize = errors.New("memo: max size must be a positive integer")

	// ErrUnknownAlgorithm indicates an unrecognized eviction algorithm.
	ErrUnknownAlgorithm = errors.New("memo: unknown eviction algorithm")

	// ErrInvalidTTL indicates a non-positive time-to-live.
	ErrInvalidTTL = errors.New("memo: ttl must be positive")

	// ErrInvalidCleanupInterval indicates a non-positive janitor interval.
	ErrInvalidCleanupInterval = errors.New("memo: cleanup interval must be positive")

	// ErrCleanupWithoutTTL indicates a janitor configured on a cache whose
	// entries never expire.
	ErrCleanupWithoutTTL = errors.New("memo: cleanup interval requires a ttl")

	// ErrCleanupUnsynchronized indicates a janitor configured together with
	// disabled thread safety; the background sweep would race callers.
	ErrCleanupUnsynchronized = errors.New("memo: cleanup interval requires thread safety")

	// ErrFlightUnsynchronized indicates the per-key flight mode configured
	// together with disabled thread safety; distinct keys would then mutate
	// the store with no guard at all.
	ErrFlightUnsynchronized = errors.New("memo: singleflight requires thread safety")
)

// Runtime errors.
var (
	// ErrNilCompute indicates a nil compute function was passed to Do.
	ErrNilCompute = errors.New("memo: compute function is nil")

	// ErrValueType indicates a wrapped function found a cached value of a
	// different type, which happens only when one cache is shared between
	// incompatible wrappers.
	ErrValueType = errors.New("memo: cached value has unexpected type")
)
