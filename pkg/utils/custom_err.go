package utils

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput          = errors.New("please enter at least one value")
	ErrQuotaExceeded       = errors.New("submission limit exceeded")
	ErrProviderUnavailable = errors.New("generation provider unavailable")
	ErrMalformedResponse   = errors.New("generation provider returned malformed content")
	ErrEmptyResponse       = errors.New("generation provider returned an empty response")
	ErrUnsupportedModule   = errors.New("unsupported module type")

	ErrRecordNotFound        = errors.New("record not found")
	ErrInvalidPayload        = errors.New("invalid payload")
	ErrDatabaseError         = errors.New("database error")
	ErrInvalidPlan           = errors.New("invalid plan selected")
	ErrPaymentsNotConfigured = errors.New("payments are not configured")
	ErrInvalidWebhook        = errors.New("invalid webhook payload")
)

// QuotaExceededError reports how far a submission overshoots the caller's allowance, which is
// the smaller of the period's remaining capacity and the plan's per-request cap.
type QuotaExceededError struct {
	Requested  int
	Remaining  int // left in the period; negative after a concurrent over-commit
	PerRequest int
	Overage    int
	Period     string // "day" or "month"
}

func NewQuotaExceededError(requested, remaining, perRequest int, period string) *QuotaExceededError {
	return &QuotaExceededError{
		Requested:  requested,
		Remaining:  remaining,
		PerRequest: perRequest,
		Overage:    requested - min(remaining, perRequest),
		Period:     period,
	}
}

// capBound reports whether the per-request cap, not the period's capacity, rejected the submission.
func (e *QuotaExceededError) capBound() bool {
	return e.PerRequest < e.Remaining
}

func (e *QuotaExceededError) Error() string {
	plural := ""
	if e.Overage > 1 {
		plural = "s"
	}

	if e.capBound() {
		return fmt.Sprintf("Submission limit exceeded. Your plan allows up to %d items per request, but you are trying to analyze %d items. Please remove %d item%s to proceed.",
			e.PerRequest, e.Requested, e.Overage, plural)
	}

	shown := max(e.Remaining, 0)
	noun := "analyses"
	if shown == 1 {
		noun = "analysis"
	}
	return fmt.Sprintf("Submission limit exceeded. You are trying to analyze %d items, but you only have %d %s remaining this %s. Please remove %d item%s to proceed.",
		e.Requested, shown, noun, e.Period, e.Overage, plural)
}

func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// ProviderError wraps a failed provider attempt. Kind is one of ErrProviderUnavailable,
// ErrMalformedResponse or ErrEmptyResponse.
type ProviderError struct {
	Provider string
	Kind     error
	Err      error
}

func NewProviderError(provider string, kind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
