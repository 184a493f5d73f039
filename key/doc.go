// Package key derives cache keys from call signatures.
//
// It provides Build, which turns positional and keyword arguments into a
// Key: either a hashable key carrying a SHA-256 digest over a canonical,
// type-tagged encoding (the fast path), or a structural key compared by
// deep equality when the arguments cannot be deterministically hashed.
package key
