package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for provider calls. Every provider failure wraps exactly one
// of these so callers can classify it with errors.Is.
var (
	ErrProviderNotConfigured = fmt.Errorf("provider not configured")
	ErrTransport             = fmt.Errorf("provider transport failure")
	ErrUpstream              = fmt.Errorf("provider returned error status")
	ErrMalformedResponse     = fmt.Errorf("provider response malformed")
	ErrEmptyCompletion       = fmt.Errorf("provider returned empty text")
)

// Sentinel errors for input and configuration.
var (
	ErrUnknownProvider = fmt.Errorf("unknown provider")
	ErrConfigLoad      = fmt.Errorf("failed to load configuration")
	ErrDecryption      = fmt.Errorf("decryption failed")
)

// ProviderError wraps a provider sentinel with call context.
type ProviderError struct {
	Provider   ProviderID
	Err        error  // one of the provider sentinels
	StatusCode int    // upstream HTTP status, 0 when not applicable
	Detail     string // human-readable detail, never credentials
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, e.Err)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError creates a ProviderError without a status code.
func NewProviderError(provider ProviderID, err error, detail string) *ProviderError {
	return &ProviderError{Provider: provider, Err: err, Detail: detail}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil.
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ErrorCode is a machine-parseable error category for metrics and diagnostics.
type ErrorCode string

const (
	CodeOK              ErrorCode = "ok"
	CodeUnknown         ErrorCode = "unknown"
	CodeNotConfigured   ErrorCode = "not_configured"
	CodeTransport       ErrorCode = "transport"
	CodeUpstream        ErrorCode = "upstream"
	CodeMalformed       ErrorCode = "malformed_response"
	CodeEmptyCompletion ErrorCode = "empty_completion"
	CodeUnknownProvider ErrorCode = "unknown_provider"
	CodeConfigLoad      ErrorCode = "config_load"
	CodeDecryption      ErrorCode = "decryption"
)

// errorCodes is walked in order so the most specific match wins.
var errorCodes = []struct {
	err  error
	code ErrorCode
}{
	{ErrProviderNotConfigured, CodeNotConfigured},
	{ErrTransport, CodeTransport},
	{ErrUpstream, CodeUpstream},
	{ErrMalformedResponse, CodeMalformed},
	{ErrEmptyCompletion, CodeEmptyCompletion},
	{ErrUnknownProvider, CodeUnknownProvider},
	{ErrConfigLoad, CodeConfigLoad},
	{ErrDecryption, CodeDecryption},
}

// ErrorCodeOf returns the code for err. A nil error maps to CodeOK.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return CodeUnknown
}
