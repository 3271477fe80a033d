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

// AzureProvider calls a chat deployment on an Azure OpenAI resource.
type AzureProvider struct {
	cfg    config.AzureConfig
	chat   *chatClient
	logger *slog.Logger
}

// NewAzureProvider creates the Azure provider. The SDK client is only built
// when cfg is fully configured.
func NewAzureProvider(cfg config.AzureConfig, logger *slog.Logger, opts ...Option) *AzureProvider {
	p := &AzureProvider{cfg: cfg, logger: logger}
	if !cfg.Configured() {
		return p
	}

	o := buildOptions(opts)
	p.chat = &chatClient{
		provider: domain.ProviderAzureOpenAI,
		model:    cfg.Deployment,
		client: openai.NewClient(
			option.WithBaseURL(azureDeploymentURL(cfg.Endpoint, cfg.Deployment)),
			option.WithHeader("api-key", cfg.APIKey),
			option.WithHeaderDel("authorization"),
			option.WithQuery("api-version", cfg.APIVersion),
			option.WithHTTPClient(o.httpClient),
			option.WithMaxRetries(0),
		),
	}
	return p
}

// azureDeploymentURL builds <endpoint>/openai/deployments/<deployment>/.
func azureDeploymentURL(endpoint, deployment string) string {
	return strings.TrimRight(endpoint, "/") + "/openai/deployments/" + deployment + "/"
}

// Name implements domain.TextProvider.
func (p *AzureProvider) Name() domain.ProviderID { return domain.ProviderAzureOpenAI }

// Configured implements domain.TextProvider.
func (p *AzureProvider) Configured() bool { return p.cfg.Configured() }

// Describe implements domain.TextProvider.
func (p *AzureProvider) Describe() domain.ProviderInfo {
	return domain.ProviderInfo{
		Name:       p.Name(),
		Configured: p.Configured(),
		Deployment: p.cfg.Deployment,
		Endpoint:   p.cfg.Endpoint,
		APIVersion: p.cfg.APIVersion,
		Timeout:    p.cfg.Timeout,
	}
}

// Complete implements domain.TextProvider.
func (p *AzureProvider) Complete(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error) {
	if p.chat == nil {
		return "", domain.NewProviderError(p.Name(), domain.ErrProviderNotConfigured, "")
	}
	return runCompletion(ctx, p.Describe(), p.logger, func(ctx context.Context) (string, error) {
		return p.chat.complete(ctx, prompt, opts)
	})
}
