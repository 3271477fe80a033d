package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestProviderErrorUnwrap(t *testing.T) {
	err := &ProviderError{Provider: ProviderOpenAI, Err: ErrUpstream, StatusCode: 503, Detail: "overloaded"}

	if !errors.Is(err, ErrUpstream) {
		t.Error("expected errors.Is(err, ErrUpstream)")
	}
	want := "openai: provider returned error status (status 503): overloaded"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	wrapped := fmt.Errorf("generate: %w", err)
	var pe *ProviderError
	if !errors.As(wrapped, &pe) || pe.StatusCode != 503 {
		t.Errorf("errors.As failed on wrapped provider error: %v", wrapped)
	}
}

func TestErrorCodeOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorCode
	}{
		{nil, CodeOK},
		{ErrProviderNotConfigured, CodeNotConfigured},
		{NewProviderError(ProviderAzureOpenAI, ErrTransport, "dial"), CodeTransport},
		{fmt.Errorf("x: %w", NewProviderError(ProviderOpenAI, ErrUpstream, "")), CodeUpstream},
		{NewProviderError(ProviderHuggingFace, ErrMalformedResponse, ""), CodeMalformed},
		{NewProviderError(ProviderHuggingFace, ErrEmptyCompletion, ""), CodeEmptyCompletion},
		{fmt.Errorf("%w: gemini", ErrUnknownProvider), CodeUnknownProvider},
		{context.Canceled, CodeUnknown},
	}
	for _, tt := range tests {
		if got := ErrorCodeOf(tt.err); got != tt.want {
			t.Errorf("ErrorCodeOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestWrapOp(t *testing.T) {
	if WrapOp("op", nil) != nil {
		t.Error("WrapOp(nil) should be nil")
	}
	err := WrapOp("config.Load", ErrConfigLoad)
	if !errors.Is(err, ErrConfigLoad) || err.Error() != "config.Load: failed to load configuration" {
		t.Errorf("WrapOp = %v", err)
	}
}
