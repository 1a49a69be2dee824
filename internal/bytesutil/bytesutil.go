// Package bytesutil provides the small set of byte-level primitives the
// certification core builds on: byte-lex comparison, concatenation, and
// hex codec.
//
// Compare implements the corrected definition from spec.md §9's Open
// Question: unsigned byte-lex comparison over min(len(a), len(b)), ties
// broken by length. The historical TS source compared positionally without
// handling the equal-prefix/length-difference case; bytes.Compare already
// has the corrected semantics, so there is nothing left to hand-roll here.
package bytesutil

import (
	"bytes"
	"encoding/hex"
)

// Compare returns -1, 0, or 1 as a is less than, equal to, or greater than
// b, using unsigned byte-lex order with the equal-prefix case broken by
// length (the shorter of two equal-prefix strings sorts first).
func Compare(a, b []byte) int {
	return bytes.Compare(a, b)
}

// Greater reports whether a sorts strictly after b.
func Greater(a, b []byte) bool {
	return Compare(a, b) > 0
}

// Less reports whether a sorts strictly before b.
func Less(a, b []byte) bool {
	return Compare(a, b) < 0
}

// Equal reports byte-for-byte equality.
func Equal(a, b []byte) bool {
	return bytes.Equal(a, b)
}

// Concat concatenates all of its arguments into one freshly allocated slice.
func Concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// ToHex hex-encodes b.
func ToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// FromHex decodes a hex string.
func FromHex(s string) ([]byte, error) {
	return hex.DecodeString(s)
}
