package types

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable, caller-visible classification of a failure.
type ErrorKind string

const (
	KindConfigIncomplete   ErrorKind = "config_incomplete"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindAccessDenied       ErrorKind = "access_denied"
	KindNotFound           ErrorKind = "not_found"
	KindUnexpectedResponse ErrorKind = "unexpected_response"
	KindUpstreamError      ErrorKind = "upstream_error"
	KindInternalError      ErrorKind = "internal_error"
	KindNoDataFound        ErrorKind = "no_data_found"
	KindModeMissing        ErrorKind = "mode_missing"
	KindInvalidMode        ErrorKind = "invalid_mode"
	KindInvalidRequest     ErrorKind = "invalid_request"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindInvalidServiceKey  ErrorKind = "invalid_service_key"
	KindQuotaExceeded      ErrorKind = "quota_exceeded"
	KindGenerationFailed   ErrorKind = "generation_failed"
	KindRateLimited        ErrorKind = "rate_limited"
)

// sourceRank orders source failures from most to least specific.
var sourceRank = map[ErrorKind]int{
	KindInvalidCredentials: 7,
	KindAccessDenied:       6,
	KindNotFound:           5,
	KindConfigIncomplete:   4,
	KindUnexpectedResponse: 3,
	KindUpstreamError:      2,
	KindInternalError:      1,
}

// Specificity returns how specific a source failure is. Higher wins;
// kinds outside the source taxonomy score zero.
func (k ErrorKind) Specificity() int {
	return sourceRank[k]
}

// Error is a classified failure carrying a short message and optional detail.
type Error struct {
	Kind    ErrorKind
	Message string
	Details string
	Source  string // "azure_devops", "harvest", provider name; empty for orchestrator errors
}

func NewError(kind ErrorKind, message, details string) *Error {
	return &Error{Kind: kind, Message: message, Details: details}
}

func (e *Error) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Details)
}

// WithSource returns a copy of e tagged with the originating source.
func (e *Error) WithSource(source string) *Error {
	c := *e
	c.Source = source
	return &c
}

// AsError extracts an *Error from err. Unclassified errors become internal errors.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewError(KindInternalError, "Internal error", err.Error())
}

// KindOf returns the classification of err, or "" when err is nil.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	return AsError(err).Kind
}

// MostSpecific picks the most specific source failure among errs, ignoring nils.
// Ties keep the earlier error.
func MostSpecific(errs ...error) *Error {
	var best *Error
	for _, err := range errs {
		if err == nil {
			continue
		}
		e := AsError(err)
		if best == nil || e.Kind.Specificity() > best.Kind.Specificity() {
			best = e
		}
	}
	return best
}
