// Package transport declares the external collaborator interfaces the
// certificate verifier and poller depend on: HTTP transport, request
// signing/identity, and the pinned root key — all out of scope for this
// module per spec.md §1 and consumed only through these narrow seams
// (spec.md §6).
package transport

import "context"

// Path is one query path, each segment already reduced to bytes (text
// segments UTF-8 encoded by the caller before being placed in a Path).
type Path [][]byte

// Request is an opaque, pre-signed read-state request produced by
// CreateReadStateRequest. Its contents are entirely owned by the
// transport/identity implementation; the core never inspects it.
type Request interface{}

// Response carries the raw certificate bytes returned by a readState
// call, still to be decoded and verified by the certificate package.
type Response struct {
	Certificate []byte
}

// Transport is the injected collaborator a Poller drives. RootKey is the
// pinned BLS12-381 root public key (DER-wrapped) the caller trusts out of
// band; it never changes for the lifetime of a Transport.
type Transport interface {
	RootKey() []byte
	CreateReadStateRequest(ctx context.Context, paths []Path) (Request, error)
	ReadState(ctx context.Context, canisterID []byte, paths []Path, req Request) (Response, error)
}
