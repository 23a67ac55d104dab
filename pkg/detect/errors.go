package detect

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// Sentinel errors for common conditions.
var (
	// ErrNoRegion is returned when the AWS region is missing.
	ErrNoRegion = errors.New("detect: region required")

	// ErrNoCredentials is returned when no AWS credentials resolve.
	ErrNoCredentials = errors.New("detect: credentials unavailable")

	// ErrEmptyImage is returned for an empty image buffer.
	ErrEmptyImage = errors.New("detect: empty image")

	// ErrBadMaxLabels is returned for a non-positive label bound.
	ErrBadMaxLabels = errors.New("detect: max labels must be at least 1")

	// ErrBadMinConfidence is returned for a confidence floor outside [0,100].
	ErrBadMinConfidence = errors.New("detect: min confidence must be in [0,100]")
)

// ProviderError wraps an error with provider context.
type ProviderError struct {
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("detect [%s]: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with provider context.
func WrapError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Err: err}
}

// IsThrottled reports whether err is a rate or throughput limit from
// the service. Throttled frames are skipped, never retried.
func IsThrottled(err error) bool {
	var ae smithy.APIError
	if !errors.As(err, &ae) {
		return false
	}
	switch ae.ErrorCode() {
	case "ThrottlingException",
		"ProvisionedThroughputExceededException",
		"LimitExceededException",
		"TooManyRequestsException":
		return true
	}
	return false
}

// IsUnauthorized reports whether err is an authentication or
// authorization failure.
func IsUnauthorized(err error) bool {
	var ae smithy.APIError
	if !errors.As(err, &ae) {
		return false
	}
	switch ae.ErrorCode() {
	case "AccessDeniedException",
		"UnrecognizedClientException",
		"InvalidSignatureException",
		"ExpiredTokenException":
		return true
	}
	return false
}

// IsBadImage reports whether the service rejected the image payload
// itself rather than the request around it.
func IsBadImage(err error) bool {
	var ae smithy.APIError
	if !errors.As(err, &ae) {
		return errors.Is(err, ErrEmptyImage)
	}
	switch ae.ErrorCode() {
	case "InvalidImageFormatException", "ImageTooLargeException":
		return true
	}
	return false
}

// IsRetryable reports whether a later identical request could succeed.
// The session loop does not retry; this exists for log context.
func IsRetryable(err error) bool {
	if IsThrottled(err) {
		return true
	}
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return ae.ErrorFault() == smithy.FaultServer
	}
	return false
}
