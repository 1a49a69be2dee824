// Package cborcodec is the default implementation of the certificate
// decoder spec.md §6 treats as an injected external collaborator: it turns
// raw certificate bytes into a hashtree.Tree plus signature and optional
// delegation, and separately decodes a delegation's canister-range list.
// It is built on github.com/fxamacker/cbor/v2, decoding into interface{}
// and walking the generic CBOR value the way the hash-tree wire format
// (an array tagged by its first element) requires.
package cborcodec

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/certen/ic-cert-core/certerr"
	"github.com/certen/ic-cert-core/hashtree"
)

// Certificate is the decoded wire form: a tree, its signature, and an
// optional delegation naming a nested certificate.
type Certificate struct {
	Tree       *hashtree.Tree
	Signature  []byte
	Delegation *Delegation
}

// Delegation names the subnet whose key signed Tree's root and carries the
// nested certificate attesting that delegation.
type Delegation struct {
	SubnetID    []byte
	Certificate []byte
}

type wireCertificate struct {
	Tree       cbor.RawMessage `cbor:"tree"`
	Signature  []byte          `cbor:"signature"`
	Delegation *wireDelegation `cbor:"delegation,omitempty"`
}

type wireDelegation struct {
	SubnetID    []byte `cbor:"subnet_id"`
	Certificate []byte `cbor:"certificate"`
}

// Decoder decodes raw certificate bytes. It is an interface so callers can
// substitute a fake in tests without depending on this package.
type Decoder interface {
	Decode(raw []byte) (*Certificate, error)
}

// Default is the cbor/v2-backed Decoder certificate.Create uses unless a
// caller injects its own through Options.Decoder.
var Default Decoder = cborDecoder{}

type cborDecoder struct{}

func (cborDecoder) Decode(raw []byte) (*Certificate, error) {
	return Decode(raw)
}

// Decode is the package-level entry point Default.Decode wraps.
func Decode(raw []byte) (*Certificate, error) {
	var wc wireCertificate
	if err := cbor.Unmarshal(raw, &wc); err != nil {
		return nil, certerr.Wrap(certerr.KindMalformedTree, "decode certificate CBOR", err)
	}

	tree, err := decodeTreeBytes(wc.Tree)
	if err != nil {
		return nil, err
	}

	cert := &Certificate{Tree: tree, Signature: wc.Signature}
	if wc.Delegation != nil {
		cert.Delegation = &Delegation{
			SubnetID:    wc.Delegation.SubnetID,
			Certificate: wc.Delegation.Certificate,
		}
	}
	return cert, nil
}

// Encode is Decode's inverse: it serializes a Certificate back to wire
// bytes. The core itself never calls this (it only ever consumes
// certificates produced elsewhere), but an in-process sender — the
// cmd/pollcert demo's loopback transport, and tests that want a real
// CBOR round trip instead of a fake decoder — needs a way to produce
// wire bytes a Decoder can read back.
func Encode(cert *Certificate) ([]byte, error) {
	treeBytes, err := cbor.Marshal(encodeTreeValue(cert.Tree))
	if err != nil {
		return nil, certerr.Wrap(certerr.KindMalformedTree, "encode hash tree CBOR", err)
	}

	wc := wireCertificate{
		Tree:      treeBytes,
		Signature: cert.Signature,
	}
	if cert.Delegation != nil {
		wc.Delegation = &wireDelegation{
			SubnetID:    cert.Delegation.SubnetID,
			Certificate: cert.Delegation.Certificate,
		}
	}

	raw, err := cbor.Marshal(wc)
	if err != nil {
		return nil, certerr.Wrap(certerr.KindMalformedTree, "encode certificate CBOR", err)
	}
	return raw, nil
}

func encodeTreeValue(t *hashtree.Tree) any {
	switch {
	case t.IsEmpty():
		return []any{0}
	case t.IsFork():
		left, right := t.Fork()
		return []any{1, encodeTreeValue(left), encodeTreeValue(right)}
	case t.IsLabeled():
		label, sub := t.Labeled()
		return []any{2, label, encodeTreeValue(sub)}
	case t.IsLeaf():
		return []any{3, t.Leaf()}
	default: // Pruned
		digest := t.Pruned()
		return []any{4, digest[:]}
	}
}

func decodeTreeBytes(raw cbor.RawMessage) (*hashtree.Tree, error) {
	var v any
	if err := cbor.Unmarshal(raw, &v); err != nil {
		return nil, certerr.Wrap(certerr.KindMalformedTree, "decode hash tree CBOR", err)
	}
	return decodeTreeValue(v)
}

// decodeTreeValue walks one generic CBOR value into a *hashtree.Tree. The
// wire format is a CBOR array whose first element is a small integer
// discriminator: 0 Empty, 1 Fork(left, right), 2 Labeled(label, subtree),
// 3 Leaf(contents), 4 Pruned(digest).
func decodeTreeValue(v any) (*hashtree.Tree, error) {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil, certerr.New(certerr.KindMalformedTree, "hash tree node must be a non-empty array")
	}

	tag, ok := toUint64(arr[0])
	if !ok {
		return nil, certerr.New(certerr.KindMalformedTree, "hash tree node discriminator must be an integer")
	}

	switch tag {
	case 0: // Empty
		if len(arr) != 1 {
			return nil, certerr.New(certerr.KindMalformedTree, "Empty node must have exactly one element")
		}
		return hashtree.Empty(), nil

	case 1: // Fork
		if len(arr) != 3 {
			return nil, certerr.New(certerr.KindMalformedTree, "Fork node must have exactly three elements")
		}
		left, err := decodeTreeValue(arr[1])
		if err != nil {
			return nil, err
		}
		right, err := decodeTreeValue(arr[2])
		if err != nil {
			return nil, err
		}
		return hashtree.NewFork(left, right), nil

	case 2: // Labeled
		if len(arr) != 3 {
			return nil, certerr.New(certerr.KindMalformedTree, "Labeled node must have exactly three elements")
		}
		label, ok := arr[1].([]byte)
		if !ok {
			return nil, certerr.New(certerr.KindMalformedTree, "Labeled node's label must be a byte string")
		}
		sub, err := decodeTreeValue(arr[2])
		if err != nil {
			return nil, err
		}
		return hashtree.NewLabeled(label, sub), nil

	case 3: // Leaf
		if len(arr) != 2 {
			return nil, certerr.New(certerr.KindMalformedTree, "Leaf node must have exactly two elements")
		}
		contents, ok := arr[1].([]byte)
		if !ok {
			return nil, certerr.New(certerr.KindMalformedTree, "Leaf node's contents must be a byte string")
		}
		return hashtree.NewLeaf(contents), nil

	case 4: // Pruned
		if len(arr) != 2 {
			return nil, certerr.New(certerr.KindMalformedTree, "Pruned node must have exactly two elements")
		}
		digest, ok := arr[1].([]byte)
		if !ok || len(digest) != 32 {
			return nil, certerr.New(certerr.KindMalformedTree, "Pruned node's digest must be 32 bytes")
		}
		var d [32]byte
		copy(d[:], digest)
		return hashtree.NewPruned(d), nil

	default:
		return nil, certerr.New(certerr.KindMalformedTree, "unknown hash tree node discriminator").
			WithDetail("tag", tag)
	}
}

// DecodeCanisterRanges decodes a delegation's `canister_ranges` leaf
// value: a CBOR array of two-element [low, high] byte-string pairs
// (spec.md §4.4 step 2).
func DecodeCanisterRanges(raw []byte) ([][2][]byte, error) {
	var v any
	if err := cbor.Unmarshal(raw, &v); err != nil {
		return nil, certerr.Wrap(certerr.KindMalformedTree, "decode canister ranges CBOR", err)
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, certerr.New(certerr.KindMalformedTree, "canister ranges must be a CBOR array")
	}

	out := make([][2][]byte, 0, len(arr))
	for _, item := range arr {
		pair, ok := item.([]any)
		if !ok || len(pair) != 2 {
			return nil, certerr.New(certerr.KindMalformedTree, "canister range entry must be a [low, high] pair")
		}
		low, okLow := pair[0].([]byte)
		high, okHigh := pair[1].([]byte)
		if !okLow || !okHigh {
			return nil, certerr.New(certerr.KindMalformedTree, "canister range bounds must be byte strings")
		}
		out = append(out, [2][]byte{low, high})
	}
	return out, nil
}

func toUint64(v any) (uint64, bool) {
	switch x := v.(type) {
	case uint64:
		return x, true
	case int64:
		if x >= 0 {
			return uint64(x), true
		}
	case uint:
		return uint64(x), true
	case int:
		if x >= 0 {
			return uint64(x), true
		}
	}
	return 0, false
}
