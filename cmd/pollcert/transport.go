package main

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/certen/ic-cert-core/blsverify"
	"github.com/certen/ic-cert-core/cborcodec"
	"github.com/certen/ic-cert-core/certificate"
	"github.com/certen/ic-cert-core/hashtree"
	"github.com/certen/ic-cert-core/internal/domainsep"
	"github.com/certen/ic-cert-core/leb128"
	"github.com/certen/ic-cert-core/rih"
	"github.com/certen/ic-cert-core/transport"
)

// loopbackTransport stands in for a real agent-to-replica HTTP client
// (out of scope per this module's external-collaborator boundary): it
// plays the replica's role in-process, advancing the demo request through
// "processing" for ticksUntilReply calls before replying, signing every
// certificate it emits with a freshly minted root key.
type loopbackTransport struct {
	rootKey         *blsverify.KeyPair
	rootKeyDER      []byte
	requestID       rih.RequestID
	ticksUntilReply int

	calls int
}

func newLoopbackTransport(requestID rih.RequestID, ticksUntilReply int) (*loopbackTransport, error) {
	kp, err := blsverify.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("mint root key: %w", err)
	}
	der, err := certificate.WrapDER(kp.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("wrap root key: %w", err)
	}
	return &loopbackTransport{rootKey: kp, rootKeyDER: der, requestID: requestID, ticksUntilReply: ticksUntilReply}, nil
}

func (lt *loopbackTransport) RootKey() []byte {
	return lt.rootKeyDER
}

func (lt *loopbackTransport) CreateReadStateRequest(ctx context.Context, paths []transport.Path) (transport.Request, error) {
	return "demo-read-state-request", nil
}

func (lt *loopbackTransport) ReadState(ctx context.Context, canisterID []byte, paths []transport.Path, req transport.Request) (transport.Response, error) {
	status := "processing"
	var reply []byte
	if lt.calls >= lt.ticksUntilReply {
		status = "replied"
		reply = []byte("hello from the loopback canister")
	}
	lt.calls++

	statusNode := hashtree.NewLabeled([]byte("status"), hashtree.NewLeaf([]byte(status)))
	requestNode := statusNode
	if reply != nil {
		// "reply" < "status" byte-lexicographically.
		requestNode = hashtree.NewFork(
			hashtree.NewLabeled([]byte("reply"), hashtree.NewLeaf(reply)),
			statusNode)
	}

	// "request_status" < "time" byte-lexicographically.
	tree := hashtree.NewFork(
		hashtree.NewLabeled([]byte("request_status"),
			hashtree.NewLabeled(lt.requestID.Bytes(), requestNode)),
		hashtree.NewLabeled([]byte("time"), leafTime(time.Now())),
	)

	rootHash := hashtree.Reconstruct(tree)
	msg := append(append([]byte{}, domainsep.Tag(domainsep.StateRoot)...), rootHash[:]...)
	sig := lt.rootKey.Sign(msg)

	raw, err := cborcodec.Encode(&cborcodec.Certificate{Tree: tree, Signature: sig})
	if err != nil {
		return transport.Response{}, fmt.Errorf("encode demo certificate: %w", err)
	}
	return transport.Response{Certificate: raw}, nil
}

func leafTime(t time.Time) *hashtree.Tree {
	return hashtree.NewLeaf(leb128.EncodeUint(big.NewInt(t.UnixNano())))
}
