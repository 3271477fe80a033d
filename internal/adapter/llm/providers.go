package llm

import (
	"log/slog"

	"moodpoet/internal/domain"
	"moodpoet/internal/infra/config"
)

// NewProviders builds the three providers in the fixed priority order.
// Unconfigured providers are included; they report Configured() == false.
func NewProviders(cfg config.ProvidersConfig, logger *slog.Logger, opts ...Option) []domain.TextProvider {
	return []domain.TextProvider{
		NewAzureProvider(cfg.Azure, logger, opts...),
		NewOpenAIProvider(cfg.OpenAI, logger, opts...),
		NewHuggingFaceProvider(cfg.HuggingFace, logger, opts...),
	}
}

// Compile-time interface checks.
var (
	_ domain.TextProvider = (*AzureProvider)(nil)
	_ domain.TextProvider = (*OpenAIProvider)(nil)
	_ domain.TextProvider = (*HuggingFaceProvider)(nil)
)
