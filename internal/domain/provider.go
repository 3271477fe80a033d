package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ProviderID identifies one of the LLM backends. The zero value means
// "no preference" when used as a preferred provider.
type ProviderID string

// Known providers, listed in their fixed priority order.
const (
	ProviderNone        ProviderID = ""
	ProviderAzureOpenAI ProviderID = "azure_openai"
	ProviderOpenAI      ProviderID = "openai"
	ProviderHuggingFace ProviderID = "huggingface"
)

// SourceBackup marks a poem whose body came from the backup templates.
const SourceBackup = "backup"

// ProviderOrder is the fixed priority order walked by the generator.
var ProviderOrder = []ProviderID{ProviderAzureOpenAI, ProviderOpenAI, ProviderHuggingFace}

// ParseProvider maps a user supplied name to a ProviderID. An empty string
// parses to ProviderNone.
func ParseProvider(s string) (ProviderID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "auto":
		return ProviderNone, nil
	case "azure_openai", "azure":
		return ProviderAzureOpenAI, nil
	case "openai":
		return ProviderOpenAI, nil
	case "huggingface", "hf":
		return ProviderHuggingFace, nil
	default:
		return ProviderNone, fmt.Errorf("%w: %q", ErrUnknownProvider, s)
	}
}

// GenerateOptions carries the generation parameters sent upstream.
type GenerateOptions struct {
	MaxTokens   int
	Temperature float64
}

// DefaultGenerateOptions returns the stock parameters (150 tokens, 0.7).
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{MaxTokens: 150, Temperature: 0.7}
}

// ProviderInfo holds the non-secret settings of a provider for diagnostics.
// It must never carry credentials.
type ProviderInfo struct {
	Name       ProviderID    `json:"name"`
	Configured bool          `json:"configured"`
	Model      string        `json:"model,omitempty"`
	Deployment string        `json:"deployment,omitempty"`
	Endpoint   string        `json:"endpoint,omitempty"`
	APIVersion string        `json:"api_version,omitempty"`
	Timeout    time.Duration `json:"timeout"`
}

// TextProvider turns a prompt into generated text through one LLM backend.
type TextProvider interface {
	// Name returns the provider identifier.
	Name() ProviderID
	// Configured reports whether every required setting is present.
	Configured() bool
	// Describe returns the provider's non-secret settings.
	Describe() ProviderInfo
	// Complete issues a single request. It returns ErrProviderNotConfigured
	// without any network I/O when Configured is false.
	Complete(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}
