package rih

// RequestID is a 32-byte opaque identifier. It is structurally a byte
// string but kept as a distinct type so it cannot be confused with
// arbitrary bytes at the type level (spec.md §3).
type RequestID [32]byte

// Bytes returns the identifier's 32 raw bytes.
func (r RequestID) Bytes() []byte {
	return r[:]
}

// DeriveRequestID hashes the top-level request mapping and brands the
// result as a RequestID (spec.md §4.1's C4 specialization of Hash).
func DeriveRequestID(request Map) (RequestID, error) {
	digest, err := Hash(request)
	if err != nil {
		return RequestID{}, err
	}
	return RequestID(digest), nil
}
