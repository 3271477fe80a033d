package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go"

	"moodpoet/internal/domain"
)

// chatClient issues a single chat completion through the openai-go SDK.
// Azure and OpenAI share it and differ only in request options.
type chatClient struct {
	provider domain.ProviderID
	model    string
	client   openai.Client
}

func (c *chatClient) complete(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(int64(opts.MaxTokens)),
		Temperature: openai.Float(opts.Temperature),
	})
	if err != nil {
		return "", classifySDKError(c.provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.NewProviderError(c.provider, domain.ErrMalformedResponse, "response has no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", domain.NewProviderError(c.provider, domain.ErrEmptyCompletion, "choices[0].message.content is blank")
	}
	return text, nil
}

// classifySDKError maps an openai-go error onto the provider sentinels.
func classifySDKError(provider domain.ProviderID, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		detail := strings.TrimSpace(apiErr.Message)
		if detail == "" {
			detail = strings.TrimSpace(apiErr.RawJSON())
		}
		if detail == "" {
			detail = http.StatusText(apiErr.StatusCode)
		}
		return &domain.ProviderError{
			Provider:   provider,
			Err:        domain.ErrUpstream,
			StatusCode: apiErr.StatusCode,
			Detail:     truncate(detail, maxErrorDetail),
		}
	}
	if isTransportError(err) {
		return transportError(provider, err)
	}
	return domain.NewProviderError(provider, domain.ErrMalformedResponse, truncate(err.Error(), maxErrorDetail))
}
