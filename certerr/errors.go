// Package certerr defines the closed taxonomy of failures the certification
// core can surface. Every verification or poll failure comes back as an
// *Error carrying one of the Kind values below plus enough diagnostic
// context to reconstruct the offending input. The one exception is an
// error returned by a caller's poll Strategy (including a context error),
// which the poller passes back unchanged.
package certerr

import "fmt"

// Kind is a closed set of failure categories. New kinds are added here, not
// invented ad hoc at call sites.
type Kind string

const (
	KindUnsupportedHashValue Kind = "UNSUPPORTED_HASH_VALUE"
	KindMalformedTree        Kind = "MALFORMED_TREE"
	KindMalformedDER         Kind = "MALFORMED_DER"
	KindNestedDelegation     Kind = "NESTED_DELEGATION"
	KindCanisterOutOfRange   Kind = "CANISTER_OUT_OF_RANGE"
	KindMissingTime          Kind = "MISSING_TIME"
	KindCertificateTooOld    Kind = "CERTIFICATE_TOO_OLD"
	KindCertificateTooNew    Kind = "CERTIFICATE_TOO_NEW"
	KindSignatureInvalid     Kind = "SIGNATURE_INVALID"
	KindMissingSubnetKey     Kind = "MISSING_SUBNET_KEY"
	KindCallRejected         Kind = "CALL_REJECTED"
	KindCallDoneWithoutReply Kind = "CALL_DONE_WITHOUT_REPLY"
	KindTransportFailure     Kind = "TRANSPORT_FAILURE"
)

// Error is the single error type returned by the core. It carries a closed
// Kind, a human-readable message, an optional Details bag for diagnostic
// context (the offending value, canister id, subnet id, ...), and an
// optional wrapped Cause.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, so callers can
// do errors.Is(err, certerr.New(certerr.KindMissingTime, "")) style checks,
// but more usefully lets them compare against the Kind sentinels below via
// errors.Is(err, certerr.KindMissingTime) is not valid Go (Kind isn't an
// error); HasKind is the supported check.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// New constructs an Error with no details or cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an Error that wraps an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// WithDetail returns a copy of e with an added diagnostic detail.
func (e *Error) WithDetail(key string, value any) *Error {
	clone := *e
	clone.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		clone.Details[k] = v
	}
	clone.Details[key] = value
	return &clone
}

// HasKind reports whether err is (or wraps) a *certerr.Error of the given kind.
func HasKind(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if ce, ok := err.(*Error); ok {
			e = ce
			break
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = unwrapper.Unwrap()
	}
	return e != nil && e.Kind == kind
}

// Rejected carries the two fields a CallRejected failure must preserve
// verbatim (spec.md §4.6).
func Rejected(code uint8, message string) *Error {
	return (&Error{Kind: KindCallRejected, Message: "call rejected"}).
		WithDetail("reject_code", code).
		WithDetail("reject_message", message)
}
