package llm

import (
	"context"
	"log/slog"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"moodpoet/internal/domain"
	"moodpoet/internal/infra/config"
)

// OpenAIProvider calls the OpenAI chat completions API, or any compatible
// endpoint set through BaseURL.
type OpenAIProvider struct {
	cfg    config.OpenAIConfig
	chat   *chatClient
	logger *slog.Logger
}

// NewOpenAIProvider creates the OpenAI provider. The SDK client is only
// built when cfg is fully configured.
func NewOpenAIProvider(cfg config.OpenAIConfig, logger *slog.Logger, opts ...Option) *OpenAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.DefaultOpenAIBaseURL
	}
	p := &OpenAIProvider{cfg: cfg, logger: logger}
	if !cfg.Configured() {
		return p
	}

	o := buildOptions(opts)
	p.chat = &chatClient{
		provider: domain.ProviderOpenAI,
		model:    cfg.Model,
		client: openai.NewClient(
			option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"),
			option.WithAPIKey(cfg.APIKey),
			option.WithHTTPClient(o.httpClient),
			option.WithMaxRetries(0),
		),
	}
	return p
}

// Name implements domain.TextProvider.
func (p *OpenAIProvider) Name() domain.ProviderID { return domain.ProviderOpenAI }

// Configured implements domain.TextProvider.
func (p *OpenAIProvider) Configured() bool { return p.cfg.Configured() }

// Describe implements domain.TextProvider.
func (p *OpenAIProvider) Describe() domain.ProviderInfo {
	return domain.ProviderInfo{
		Name:       p.Name(),
		Configured: p.Configured(),
		Model:      p.cfg.Model,
		Endpoint:   p.cfg.BaseURL,
		Timeout:    p.cfg.Timeout,
	}
}

// Complete implements domain.TextProvider.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error) {
	if p.chat == nil {
		return "", domain.NewProviderError(p.Name(), domain.ErrProviderNotConfigured, "")
	}
	return runCompletion(ctx, p.Describe(), p.logger, func(ctx context.Context) (string, error) {
		return p.chat.complete(ctx, prompt, opts)
	})
}
