// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the resolver, fetcher, and batch driver.
// Callers classify failures with errors.Is.
var (
	// ErrMissingCredential means no API key could be found at startup.
	ErrMissingCredential = errors.New("missing API credential")

	// ErrAuthorNotFound means the author search produced no usable candidate.
	ErrAuthorNotFound = errors.New("author not found")

	// ErrUpstream covers transport failures, timeouts, and non-200 responses.
	ErrUpstream = errors.New("upstream error")

	// ErrMalformedResponse is an upstream error whose body did not match the
	// expected shape. errors.Is(ErrMalformedResponse, ErrUpstream) holds.
	ErrMalformedResponse = fmt.Errorf("%w: malformed response", ErrUpstream)

	// ErrInvalidInput rejects arguments before any request is sent.
	ErrInvalidInput = errors.New("invalid input")
)

// UpstreamError describes a failed call to the scholarly graph API.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Endpoint, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s", e.Endpoint, msg)
}

// Unwrap exposes both the upstream sentinel and the underlying cause.
func (e *UpstreamError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrUpstream}
	}
	return []error{ErrUpstream, e.Cause}
}

// NotFoundError reports the query that produced no usable author.
type NotFoundError struct {
	Query  string
	Reason string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("author not found: %q (%s)", e.Query, e.Reason)
	}
	return fmt.Sprintf("author not found: %q", e.Query)
}

// Unwrap returns ErrAuthorNotFound for use with errors.Is.
func (e *NotFoundError) Unwrap() error {
	return ErrAuthorNotFound
}

// NewUpstreamError creates an UpstreamError.
func NewUpstreamError(endpoint string, statusCode int, message string, cause error) *UpstreamError {
	return &UpstreamError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    message,
		Cause:      cause,
	}
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(query, reason string) *NotFoundError {
	return &NotFoundError{Query: query, Reason: reason}
}
