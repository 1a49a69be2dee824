// Package leb128 implements unsigned LEB128 encoding and decoding, the
// variable-length integer format the certification core needs for two
// narrow purposes: encoding the magnitude of rih.Uint values (spec.md §4.1)
// and decoding the nanosecond timestamp embedded in a certificate's time
// leaf (spec.md §4.4 step 4). No library in the dependency graph provides
// this primitive, so unlike the rest of the core's external collaborators
// it is implemented directly against math/big; see DESIGN.md for why that
// is the one stdlib-only exception.
package leb128

import (
	"fmt"
	"math/big"
	"time"
)

// EncodeUint encodes a non-negative big.Int as unsigned LEB128. A nil or
// negative n is treated as a programming error and panics, since every
// caller in this module derives n from a value it already validated as
// non-negative.
func EncodeUint(n *big.Int) []byte {
	if n == nil || n.Sign() < 0 {
		panic("leb128: EncodeUint requires a non-negative value")
	}
	if n.Sign() == 0 {
		return []byte{0x00}
	}

	v := new(big.Int).Set(n)
	mask := big.NewInt(0x7f)
	var out []byte
	for v.Sign() != 0 {
		group := new(big.Int).And(v, mask)
		v.Rsh(v, 7)
		b := byte(group.Uint64())
		if v.Sign() != 0 {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}

// DecodeUint decodes an unsigned LEB128 value from the start of b,
// returning the value and the number of bytes consumed. It rejects
// non-minimal encodings (a trailing zero continuation group) the same way
// a canonical-encoding check would, since a certificate's serialized
// values must round-trip byte-for-byte.
func DecodeUint(b []byte) (*big.Int, int, error) {
	v := new(big.Int)
	shift := uint(0)
	consumed := 0
	for {
		if consumed >= len(b) {
			return nil, 0, fmt.Errorf("leb128: truncated input")
		}
		group := b[consumed]
		consumed++

		chunk := new(big.Int).SetUint64(uint64(group & 0x7f))
		chunk.Lsh(chunk, shift)
		v.Or(v, chunk)

		if group&0x80 == 0 {
			if consumed > 1 && group == 0 {
				return nil, 0, fmt.Errorf("leb128: non-minimal encoding")
			}
			return v, consumed, nil
		}
		shift += 7
	}
}

// DecodeNanosTimestamp decodes b as an unsigned LEB128 nanosecond instant,
// the wire form of a certificate's `time` leaf (spec.md §4.4 step 4).
func DecodeNanosTimestamp(b []byte) (time.Time, error) {
	n, _, err := DecodeUint(b)
	if err != nil {
		return time.Time{}, fmt.Errorf("leb128: decode timestamp: %w", err)
	}
	if !n.IsInt64() {
		return time.Time{}, fmt.Errorf("leb128: timestamp overflows int64 nanoseconds")
	}
	return time.Unix(0, n.Int64()).UTC(), nil
}
