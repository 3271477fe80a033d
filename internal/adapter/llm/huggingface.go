package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"moodpoet/internal/domain"
	"moodpoet/internal/infra/config"
)

// hfTopP is the fixed nucleus sampling value sent with every request.
const hfTopP = 0.9

// HuggingFaceProvider calls the HuggingFace hosted inference API.
type HuggingFaceProvider struct {
	cfg    config.HuggingFaceConfig
	client *http.Client
	logger *slog.Logger
}

// NewHuggingFaceProvider creates the HuggingFace provider.
func NewHuggingFaceProvider(cfg config.HuggingFaceConfig, logger *slog.Logger, opts ...Option) *HuggingFaceProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.DefaultHuggingFaceURL
	}
	o := buildOptions(opts)
	return &HuggingFaceProvider{cfg: cfg, client: o.httpClient, logger: logger}
}

// Name implements domain.TextProvider.
func (p *HuggingFaceProvider) Name() domain.ProviderID { return domain.ProviderHuggingFace }

// Configured implements domain.TextProvider.
func (p *HuggingFaceProvider) Configured() bool { return p.cfg.Configured() }

// Describe implements domain.TextProvider.
func (p *HuggingFaceProvider) Describe() domain.ProviderInfo {
	return domain.ProviderInfo{
		Name:       p.Name(),
		Configured: p.Configured(),
		Model:      p.cfg.Model,
		Endpoint:   p.cfg.BaseURL,
		Timeout:    p.cfg.Timeout,
	}
}

// Complete implements domain.TextProvider.
func (p *HuggingFaceProvider) Complete(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error) {
	if !p.Configured() {
		return "", domain.NewProviderError(p.Name(), domain.ErrProviderNotConfigured, "")
	}
	return runCompletion(ctx, p.Describe(), p.logger, func(ctx context.Context) (string, error) {
		return p.complete(ctx, prompt, opts)
	})
}

func (p *HuggingFaceProvider) complete(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error) {
	body, err := json.Marshal(hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxNewTokens: opts.MaxTokens,
			Temperature:  opts.Temperature,
			TopP:         hfTopP,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	headers := map[string]string{"Authorization": "Bearer " + p.cfg.APIKey}
	respBody, err := doJSONRequest(ctx, p.client, p.Name(), p.modelURL(), body, headers)
	if err != nil {
		return "", err
	}

	var generations []hfGeneration
	if err := json.Unmarshal(respBody, &generations); err != nil {
		return "", domain.NewProviderError(p.Name(), domain.ErrMalformedResponse, fmt.Sprintf("unmarshal response: %v", err))
	}
	if len(generations) == 0 || generations[0].GeneratedText == nil {
		return "", domain.NewProviderError(p.Name(), domain.ErrMalformedResponse, "response has no generated_text")
	}

	// Text-generation models echo the prompt ahead of the continuation.
	text := strings.TrimSpace(strings.ReplaceAll(*generations[0].GeneratedText, prompt, ""))
	if text == "" {
		return "", domain.NewProviderError(p.Name(), domain.ErrEmptyCompletion, "generated_text is blank")
	}
	return text, nil
}

func (p *HuggingFaceProvider) modelURL() string {
	return strings.TrimRight(p.cfg.BaseURL, "/") + "/models/" + strings.Trim(p.cfg.Model, "/")
}

// --- HuggingFace inference wire types ---

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
	TopP         float64 `json:"top_p"`
}

type hfGeneration struct {
	GeneratedText *string `json:"generated_text"`
}
