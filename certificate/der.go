package certificate

import (
	"bytes"

	"github.com/certen/ic-cert-core/certerr"
)

// derPrefix is the fixed 37-byte DER envelope wrapping a BLS12-381 G2
// public key (spec.md §6's wire constants).
var derPrefix = []byte{
	0x30, 0x81, 0x82, 0x30, 0x1d, 0x06, 0x0d, 0x2b, 0x06, 0x01, 0x04, 0x01, 0x82, 0xdc, 0x7c, 0x05,
	0x03, 0x01, 0x02, 0x01, 0x06, 0x0c, 0x2b, 0x06, 0x01, 0x04, 0x01, 0x82, 0xdc, 0x7c, 0x05, 0x03,
	0x02, 0x01, 0x03, 0x61, 0x00,
}

const (
	derTotalKeyLength = 133
	derPayloadLength  = 96
)

// WrapDER prepends the fixed BLS12-381 G2 DER envelope to a raw 96-byte
// public key payload, the inverse of the unwrapping this verifier performs
// on every signing key it resolves. Verification never needs this (keys
// arrive already wrapped); an in-process certificate producer — the
// cmd/pollcert demo's loopback transport — does.
func WrapDER(payload []byte) ([]byte, error) {
	if len(payload) != derPayloadLength {
		return nil, certerr.New(certerr.KindMalformedDER, "DER payload has the wrong length").
			WithDetail("got", len(payload)).
			WithDetail("want", derPayloadLength)
	}
	wrapped := make([]byte, 0, len(derPrefix)+len(payload))
	wrapped = append(wrapped, derPrefix...)
	wrapped = append(wrapped, payload...)
	return wrapped, nil
}

// extractDER strips the fixed DER prefix from a DER-wrapped BLS12-381 G2
// public key, returning the raw 96-byte payload (spec.md §4.4 step 3).
func extractDER(key []byte) ([]byte, error) {
	if len(key) != derTotalKeyLength {
		return nil, certerr.New(certerr.KindMalformedDER, "DER-wrapped key has the wrong length").
			WithDetail("got", len(key)).
			WithDetail("want", derTotalKeyLength)
	}
	if !bytes.Equal(key[:len(derPrefix)], derPrefix) {
		return nil, certerr.New(certerr.KindMalformedDER, "DER prefix does not match the expected BLS12-381 G2 envelope")
	}
	payload := key[len(derPrefix):]
	if len(payload) != derPayloadLength {
		return nil, certerr.New(certerr.KindMalformedDER, "DER payload has the wrong length").
			WithDetail("got", len(payload)).
			WithDetail("want", derPayloadLength)
	}
	return payload, nil
}
