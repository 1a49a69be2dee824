// Package rih implements the representation-independent hash: a canonical,
// recursive SHA-256 digest over a closed universe of structured values
// (spec.md §3–§4.1).
//
// The universe is closed by convention rather than by a marker interface:
// Hash accepts any value, but only recognizes the concrete types declared
// in this file plus the two escape-hatch interfaces (Principal,
// Projectable). Anything else falls through to the "unsupported type"
// branch of the type switch in hash.go, which is exactly the behavior
// §4.1 calls for — a closed tagged variant would otherwise force Principal
// and Projectable implementations to live in this package and import-cycle
// back into every caller that wants to hash its own principal type.
package rih

import "math/big"

// Value is the argument type Hash accepts. It is an alias for the empty
// interface so that external types can participate in the universe via the
// Principal and Projectable escape hatches without implementing a marker
// method declared here.
type Value = any

// Text is a UTF-8 text value.
type Text string

// Uint is an arbitrary-precision non-negative integer. A nil or negative N
// is a programming error in the caller, not a hashable value; Hash rejects
// it with UnsupportedHashValue.
type Uint struct {
	N *big.Int
}

// UintFromInt64 is a convenience constructor for small non-negative
// integers (sequence indices, reject codes, and the like).
func UintFromInt64(n int64) Uint {
	return Uint{N: big.NewInt(n)}
}

// Bytes is a raw byte string. A bare []byte is also recognized directly by
// Hash (the "byte view" case of §4.1) so callers are not forced to wrap
// every byte slice.
type Bytes []byte

// Seq is an ordered, heterogeneous sequence of values.
type Seq []Value

// Map is a mapping from text keys to values. Entries whose value is the
// Absent sentinel are dropped before hashing (spec.md §4.1's absent-entry
// tie-break).
type Map map[string]Value

// absentValue is the sentinel representing an explicitly-unset map entry.
type absentValue struct{}

// Absent is the sentinel value for an explicitly-unset map entry.
var Absent Value = absentValue{}

// isAbsent reports whether v is the Absent sentinel.
func isAbsent(v Value) bool {
	_, ok := v.(absentValue)
	return ok
}

// Tagged wraps an inner value with a tag that is discarded before hashing;
// only Inner participates in the digest.
type Tagged struct {
	Tag   string
	Inner Value
}

// Principal is the escape-hatch interface a caller's principal type
// implements to participate in hashing as its canonical byte form.
// Defined here rather than imported from a principal package so that any
// type, including this module's own principal package, can satisfy it
// without an import cycle.
type Principal interface {
	PrincipalBytes() []byte
}

// Projectable is the escape-hatch interface for values whose canonical
// hashable form differs from their serialized form (spec.md §3's "hashable
// projection" example: an expiry wrapper). Hash re-enters on the
// projection rather than hashing the wrapper directly.
type Projectable interface {
	HashableProjection() Value
}
