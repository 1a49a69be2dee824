// Package principal models the opaque byte-string identities ("canisters",
// "subnets") that the certification core reasons about. It deliberately
// does not format principals to their human-readable checksum/base32 form
// (spec.md §1 names "principal-id formatting" an external collaborator's
// job); it only needs canonical bytes and byte-lex comparison.
package principal

import "github.com/certen/ic-cert-core/internal/bytesutil"

// Principal is an opaque identity. The canonical byte form is what gets
// hashed (rih) and compared (canister-range checks).
type Principal struct {
	bytes []byte
}

// FromBytes wraps raw bytes as a Principal. The slice is copied so the
// Principal is immutable regardless of what the caller does to its buffer
// afterward.
func FromBytes(b []byte) Principal {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Principal{bytes: cp}
}

// Bytes returns the canonical byte form.
func (p Principal) Bytes() []byte {
	return p.bytes
}

// PrincipalBytes satisfies the rih.Principal escape-hatch interface without
// this package importing rih.
func (p Principal) PrincipalBytes() []byte {
	return p.bytes
}

// String returns a short diagnostic form; it is not the platform's
// human-readable principal encoding (that lives outside the core).
func (p Principal) String() string {
	return bytesutil.ToHex(p.bytes)
}

// Equal reports whether two principals have identical canonical bytes.
func (p Principal) Equal(other Principal) bool {
	return bytesutil.Equal(p.bytes, other.bytes)
}

// Compare orders principals by unsigned byte-lex order over their
// canonical bytes (see internal/bytesutil for the corrected definition).
func Compare(a, b Principal) int {
	return bytesutil.Compare(a.bytes, b.bytes)
}

// ManagementCanister is the reserved empty-byte principal that identifies
// the platform's management canister (spec.md §6).
var ManagementCanister = Principal{bytes: []byte{}}

// IsManagementCanister reports whether p is the reserved management
// canister identity.
func (p Principal) IsManagementCanister() bool {
	return len(p.bytes) == 0
}

// InRange reports whether p falls within [low, high] inclusive, using
// byte-lex order over canonical bytes — the check the delegation verifier
// runs for every (low, high) canister range pair (spec.md §4.4 step 2).
func (p Principal) InRange(low, high Principal) bool {
	return Compare(low, p) <= 0 && Compare(p, high) <= 0
}
