// Package apperror defines the structured failures the API reports to clients.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for translation into an HTTP status.
type Kind string

const (
	KindValidation            Kind = "validation"
	KindMissingToken          Kind = "missing_token"
	KindInvalidSignature      Kind = "invalid_signature"
	KindExpired               Kind = "expired"
	KindStalePassword         Kind = "stale_password"
	KindUnknownSubject        Kind = "unknown_subject"
	KindInvalidCredentials    Kind = "invalid_credentials"
	KindForbidden             Kind = "forbidden"
	KindNotFound              Kind = "not_found"
	KindOutOfRange            Kind = "out_of_range"
	KindInvalidOrExpiredToken Kind = "invalid_or_expired_token"
	KindRateLimited           Kind = "rate_limited"
	KindDelivery              Kind = "delivery"
	KindInternal              Kind = "internal"
)

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Details any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error of the same kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WithDetails returns a copy carrying client-facing details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Details: details, Cause: e.Cause}
}

// WithCause returns a copy wrapping cause.
func (e *Error) WithCause(cause error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Details: e.Details, Cause: cause}
}

// Status maps the kind onto an HTTP status code.
func (e *Error) Status() int {
	return StatusOf(e.Kind)
}

func StatusOf(kind Kind) int {
	switch kind {
	case KindValidation, KindInvalidOrExpiredToken:
		return http.StatusBadRequest
	case KindMissingToken, KindInvalidSignature, KindExpired, KindStalePassword,
		KindUnknownSubject, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound, KindOutOfRange:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// As extracts the *Error in err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	if ae, ok := As(err); ok {
		return ae.Kind
	}
	return KindInternal
}

func Validation(message string) *Error { return New(KindValidation, message) }
func NotFound(message string) *Error   { return New(KindNotFound, message) }

// Internal wraps an unexpected failure.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "Something went very wrong!", Cause: cause}
}

var (
	ErrMissingToken          = New(KindMissingToken, "You are not logged in! Please log in to get access.")
	ErrInvalidSignature      = New(KindInvalidSignature, "Invalid token. Please log in again!")
	ErrExpired               = New(KindExpired, "Your token has expired! Please log in again.")
	ErrStalePassword         = New(KindStalePassword, "User recently changed password! Please log in again.")
	ErrUnknownSubject        = New(KindUnknownSubject, "The user belonging to this token no longer exists.")
	ErrInvalidCredentials    = New(KindInvalidCredentials, "Incorrect email or password")
	ErrForbidden             = New(KindForbidden, "You do not have permission to perform this action")
	ErrOutOfRange            = New(KindOutOfRange, "This page does not exist")
	ErrInvalidOrExpiredToken = New(KindInvalidOrExpiredToken, "Token is invalid or has expired")
	ErrRateLimited           = New(KindRateLimited, "Too many requests, please try again later.")
	ErrDelivery              = New(KindDelivery, "There was an error sending the email. Try again later!")
)
