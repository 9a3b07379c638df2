package quote

import (
	"context"
	"errors"
	"fmt"
)

// FallbackReason tags why the resolver used the rough estimate.
type FallbackReason string

const (
	ReasonNone             FallbackReason = ""
	ReasonNoCredential     FallbackReason = "no_credential"
	ReasonTimeout          FallbackReason = "timeout"
	ReasonNetwork          FallbackReason = "network"
	ReasonBadStatus        FallbackReason = "bad_status"
	ReasonElementStatus    FallbackReason = "element_status"
	ReasonMalformedPayload FallbackReason = "malformed_payload"
	ReasonUnknown          FallbackReason = "unknown"
)

// ProviderError is returned by distance providers so callers can tag the failure.
type ProviderError struct {
	Reason FallbackReason
	Err    error
}

// NewProviderError wraps err with a reason tag.
func NewProviderError(reason FallbackReason, err error) *ProviderError {
	return &ProviderError{Reason: reason, Err: err}
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("distance provider %s: %v", e.Reason, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ReasonOf classifies a provider failure. Deadline errors are always timeouts,
// whatever the provider tagged them as.
func ReasonOf(err error) FallbackReason {
	if err == nil {
		return ReasonNone
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Reason
	}
	return ReasonUnknown
}
