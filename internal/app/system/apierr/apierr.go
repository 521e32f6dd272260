// Package apierr defines the error taxonomy shared by every JSON endpoint.
//
// Handlers and services return *Error values; the HTTP edge maps the Kind
// to a status code and writes only Message to the client. The wrapped
// cause is for server-side logs.
package apierr

import (
	"errors"
	"net/http"
)

// Kind is the category of an API error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindNotFound
	KindUpstream
	KindTimeout
	KindMisconfigured
	KindRateLimited
)

// Reason narrows a Kind for callers that need to tell failures apart.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonUnauthorized     Reason = "Unauthorized"
	ReasonInvalidOrExpired Reason = "InvalidOrExpired"
	ReasonSelfSign         Reason = "SelfSign"
	ReasonAlreadySigned    Reason = "AlreadySigned"
)

// Error is a categorized, user-safe error.
type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the Kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func ValidationReason(reason Reason, msg string) *Error {
	return &Error{Kind: KindValidation, Reason: reason, Message: msg}
}

// Unauthorized is returned when an operation needs an identity and the
// caller has none.
func Unauthorized() *Error {
	return &Error{Kind: KindAuth, Reason: ReasonUnauthorized, Message: "Unauthorized"}
}

// InvalidCredentials is an auth failure with a caller-visible message.
func InvalidCredentials(msg string) *Error {
	return &Error{Kind: KindAuth, Reason: ReasonInvalidOrExpired, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Upstream(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

func Timeout(msg string, err error) *Error {
	return &Error{Kind: KindTimeout, Message: msg, Err: err}
}

func Misconfigured(msg string, err error) *Error {
	return &Error{Kind: KindMisconfigured, Message: msg, Err: err}
}

func RateLimited(msg string) *Error {
	return &Error{Kind: KindRateLimited, Message: msg}
}

// Internal wraps an unexpected failure behind a generic message.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: err}
}

// From returns err as an *Error, wrapping anything uncategorized as
// Internal.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// HasReason reports whether err is an *Error carrying reason.
func HasReason(err error, reason Reason) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Reason == reason
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
