// Package poller implements the poll-based request finalization state
// machine (spec.md §4.5, C9): it repeatedly submits a read-state request
// through the transport, verifies the returned certificate, classifies
// the request_status path into a terminal or non-terminal Status, and
// drives retries via an injected back-off Strategy until a terminal state
// is reached.
package poller

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/certen/ic-cert-core/blsverify"
	"github.com/certen/ic-cert-core/cborcodec"
	"github.com/certen/ic-cert-core/certerr"
	"github.com/certen/ic-cert-core/certificate"
	"github.com/certen/ic-cert-core/certlog"
	"github.com/certen/ic-cert-core/hashtree"
	"github.com/certen/ic-cert-core/principal"
	"github.com/certen/ic-cert-core/rih"
	"github.com/certen/ic-cert-core/transport"
)

// Status is the classification of a request_status certificate lookup
// (spec.md §3's Poll state). Received, Processing, and Unknown are
// non-terminal; Replied, Rejected, and Done are terminal.
type Status string

const (
	StatusReceived   Status = "received"
	StatusProcessing Status = "processing"
	StatusUnknown    Status = "unknown"
	StatusReplied    Status = "replied"
	StatusRejected   Status = "rejected"
	StatusDone       Status = "done"
)

// IsTerminal reports whether s is one of Replied, Rejected, or Done.
func (s Status) IsTerminal() bool {
	return s == StatusReplied || s == StatusRejected || s == StatusDone
}

// Strategy is invoked between non-terminal poll attempts. It may suspend
// for arbitrary time (via ctx or its own sleep); returning a non-nil error
// terminates the poll with that error, giving the caller control over
// timeout and cancellation policy (spec.md §4.5's strategy contract).
type Strategy func(ctx context.Context, canisterID principal.Principal, requestID rih.RequestID, status Status) error

// Result is the outcome of a successful poll: the certificate the Replied
// status was observed in, and the decoded reply bytes.
type Result struct {
	Certificate *certificate.Certificate
	Reply       []byte
}

// Options configures PollForResponse. Transport, CanisterID, and
// RequestID are required.
type Options struct {
	Transport  transport.Transport
	CanisterID principal.Principal
	RequestID  rih.RequestID

	// Strategy defaults to DefaultStrategy() when nil.
	Strategy Strategy
	// Request reuses a caller-supplied pre-signed read-state request
	// instead of asking the transport to create one.
	Request transport.Request
	// BLSVerify overrides the certificate verifier's default verifier.
	BLSVerify blsverify.Verifier
	// Decoder overrides the certificate verifier's default CBOR decoder.
	Decoder cborcodec.Decoder
	// MaxAgeInMinutes overrides the certificate verifier's freshness
	// window; zero means certificate.DefaultMaxAgeInMinutes.
	MaxAgeInMinutes int
	// DisableTimeVerification skips the certificate verifier's
	// time-freshness check entirely.
	DisableTimeVerification bool
	// Logger defaults to certlog.Discard.
	Logger certlog.Logger
}

// PollForResponse drives Options.Transport until the request reaches a
// terminal status, returning the Replied certificate and reply or a typed
// error for Rejected/Done/transport failures (spec.md §4.5). An error
// returned by the Strategy is passed back to the caller unchanged.
func PollForResponse(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = certlog.Discard
	}
	strategy := opts.Strategy
	if strategy == nil {
		strategy = DefaultStrategy()
	}

	// pollID correlates this poll's log lines; it has no cryptographic
	// meaning and never leaves this process (cf. the corpus's request-scoped
	// uuid.UUID tagging for server-side bundle tracking).
	pollID := uuid.New()
	statusPath := transport.Path{[]byte("request_status"), opts.RequestID.Bytes()}

	req := opts.Request
	if req == nil {
		var err error
		req, err = opts.Transport.CreateReadStateRequest(ctx, []transport.Path{statusPath})
		if err != nil {
			return nil, certerr.Wrap(certerr.KindTransportFailure, "create read-state request", err)
		}
	}

	for {
		resp, err := opts.Transport.ReadState(ctx, opts.CanisterID.Bytes(), []transport.Path{statusPath}, req)
		if err != nil {
			return nil, certerr.Wrap(certerr.KindTransportFailure, "readState call failed", err)
		}

		cert, err := certificate.Create(certificate.Options{
			CertificateBytes:        resp.Certificate,
			RootKey:                 opts.Transport.RootKey(),
			CanisterID:              opts.CanisterID,
			BLSVerify:               opts.BLSVerify,
			Decoder:                 opts.Decoder,
			MaxAgeInMinutes:         opts.MaxAgeInMinutes,
			DisableTimeVerification: opts.DisableTimeVerification,
			Logger:                  logger,
		})
		if err != nil {
			return nil, err
		}

		status := classifyStatus(cert, statusPath)
		logger.Printf("poll[%s] status=%s", pollID, status)

		switch status {
		case StatusReplied:
			replyPath := appendPath(statusPath, []byte("reply"))
			reply, _ := cert.Lookup(replyPath).AsBytes()
			return &Result{Certificate: cert, Reply: reply}, nil

		case StatusRejected:
			code := rejectCode(cert, statusPath)
			message := rejectMessage(cert, statusPath)
			return nil, certerr.Rejected(code, message)

		case StatusDone:
			return nil, certerr.New(certerr.KindCallDoneWithoutReply,
				"request reached Done without a reply ever being observed")

		default: // Received, Processing, Unknown, or an unrecognized status string
			if err := strategy(ctx, opts.CanisterID, opts.RequestID, status); err != nil {
				return nil, err
			}
		}
	}
}

func classifyStatus(cert *certificate.Certificate, statusPath transport.Path) Status {
	res := cert.Lookup(appendPath(statusPath, []byte("status")))
	if res.Status != hashtree.StatusFound {
		return StatusUnknown
	}
	raw, ok := res.AsBytes()
	if !ok {
		return StatusUnknown
	}
	return Status(raw)
}

func rejectCode(cert *certificate.Certificate, statusPath transport.Path) uint8 {
	raw, ok := cert.Lookup(appendPath(statusPath, []byte("reject_code"))).AsBytes()
	if !ok || len(raw) == 0 {
		return 0
	}
	return raw[0]
}

func rejectMessage(cert *certificate.Certificate, statusPath transport.Path) string {
	raw, ok := cert.Lookup(appendPath(statusPath, []byte("reject_message"))).AsBytes()
	if !ok {
		return ""
	}
	return string(raw)
}

func appendPath(base transport.Path, seg []byte) transport.Path {
	out := make(transport.Path, len(base), len(base)+1)
	copy(out, base)
	return append(out, seg)
}

// DefaultStrategy implements exponential back-off with a ceiling and a
// retry cap, grounded in this corpus's BackoffFactor*2^attempt recovery
// formula. Each call to DefaultStrategy returns a fresh Strategy with its
// own attempt counter, so a new poll always starts its back-off schedule
// from attempt zero.
func DefaultStrategy() Strategy {
	const (
		baseDelay   = 500 * time.Millisecond
		ceilingWait = 10 * time.Second
		maxAttempts = 10
	)

	attempt := 0
	return func(ctx context.Context, _ principal.Principal, _ rih.RequestID, _ Status) error {
		attempt++
		if attempt > maxAttempts {
			return certerr.New(certerr.KindTransportFailure, "poll exceeded its retry cap without reaching a terminal status").
				WithDetail("attempts", attempt)
		}

		delay := baseDelay * time.Duration(uint64(1)<<uint(attempt-1))
		if delay > ceilingWait {
			delay = ceilingWait
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			return nil
		}
	}
}
