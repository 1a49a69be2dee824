// Command pollcert is a runnable demonstration of the poller (C9) driving
// the certificate verifier (C8) end to end, against an in-process
// loopback transport standing in for a real replica connection. It exists
// to exercise the wiring, not as a production client.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/certen/ic-cert-core/certlog"
	"github.com/certen/ic-cert-core/poller"
	"github.com/certen/ic-cert-core/principal"
	"github.com/certen/ic-cert-core/rih"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "pollcert: config:", err)
		os.Exit(1)
	}

	logger := certlog.New(cfg.LogPrefix)

	canisterID := principal.FromBytes(cfg.CanisterID)
	requestID, err := deriveDemoRequestID(canisterID)
	if err != nil {
		logger.Printf("derive request id: %v", err)
		os.Exit(1)
	}
	logger.Printf("canister=%s request_id=%x", canisterID, requestID.Bytes())

	lt, err := newLoopbackTransport(requestID, cfg.TicksUntilReply)
	if err != nil {
		logger.Printf("build loopback transport: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.PollTimeoutSecs)*time.Second)
	defer cancel()

	result, err := poller.PollForResponse(ctx, poller.Options{
		Transport:       lt,
		CanisterID:      canisterID,
		RequestID:       requestID,
		Strategy:        demoStrategy(logger),
		MaxAgeInMinutes: cfg.MaxAgeMinutes,
		Logger:          logger,
	})
	if err != nil {
		logger.Printf("poll failed: %v", err)
		os.Exit(1)
	}

	logger.Printf("replied: %s", result.Reply)
}

// demoStrategy waits briefly and logs between non-terminal statuses,
// standing in for poller.DefaultStrategy's production back-off: each
// non-terminal status costs a fixed 50ms wait, so with the default
// TicksUntilReply the demo's run finishes in well under a second.
func demoStrategy(logger certlog.Logger) poller.Strategy {
	return func(ctx context.Context, canisterID principal.Principal, requestID rih.RequestID, status poller.Status) error {
		logger.Printf("status=%s, retrying", status)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
			return nil
		}
	}
}

// deriveDemoRequestID hashes a representative call request (spec.md §4.1's
// C4 specialization of Hash) to stand in for the identifier a real agent
// would derive from the caller's actual call envelope.
func deriveDemoRequestID(canisterID principal.Principal) (rih.RequestID, error) {
	request := rih.Map{
		"request_type": rih.Text("call"),
		"canister_id":  canisterID,
		"method_name":  rih.Text("greet"),
		"arg":          rih.Bytes("world"),
		"nonce":        rih.UintFromInt64(1),
	}
	return rih.DeriveRequestID(request)
}
