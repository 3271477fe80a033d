package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/trace"

	"moodpoet/internal/domain"
	"moodpoet/internal/infra/tracer"
)

// maxResponseBody is the maximum response body size we read from LLM APIs.
const maxResponseBody = 1 << 20 // 1 MB

// maxErrorDetail bounds the upstream body kept in a ProviderError.
const maxErrorDetail = 256

// Option customizes a provider.
type Option func(*options)

type options struct {
	httpClient *http.Client
}

// WithHTTPClient replaces the pooled client built by NewHTTPClient.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func buildOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	if o.httpClient == nil {
		o.httpClient = NewHTTPClient()
	}
	return o
}

// runCompletion bounds one provider call by timeout, wraps it in an
// llm.complete span and logs the result at debug level.
func runCompletion(ctx context.Context, info domain.ProviderInfo, logger *slog.Logger, call func(context.Context) (string, error)) (string, error) {
	if info.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, info.Timeout)
		defer cancel()
	}

	model := info.Model
	if model == "" {
		model = info.Deployment
	}
	ctx, span := tracer.StartSpan(ctx, "llm.complete",
		trace.WithAttributes(
			tracer.StringAttr("llm.provider", string(info.Name)),
			tracer.StringAttr("llm.model", model),
		),
	)
	defer span.End()

	start := time.Now()
	text, err := call(ctx)
	span.SetAttributes(tracer.DurationAttr("llm.latency_ms", time.Since(start)))
	if err != nil {
		span.SetAttributes(tracer.StringAttr("llm.error_code", string(domain.ErrorCodeOf(err))))
		tracer.RecordError(span, err)
		return "", err
	}

	tracer.SetOK(span)
	logger.Debug("llm completion received",
		"provider", info.Name,
		"model", model,
		"chars", utf8.RuneCountInString(text),
		"latency", time.Since(start),
	)
	return text, nil
}

// doJSONRequest performs a JSON POST request and returns the response body.
// Transport failures and non-2xx statuses come back as *domain.ProviderError.
func doJSONRequest(ctx context.Context, client *http.Client, provider domain.ProviderID, url string, body []byte, headers map[string]string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewProviderError(provider, domain.ErrTransport, fmt.Sprintf("create request: %v", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, transportError(provider, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return nil, transportError(provider, fmt.Errorf("read response: %w", err))
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, mapHTTPError(provider, httpResp.StatusCode, respBody)
	}

	return respBody, nil
}

// mapHTTPError maps a non-2xx status and its body to an upstream error.
func mapHTTPError(provider domain.ProviderID, statusCode int, body []byte) error {
	detail := truncate(strings.TrimSpace(string(body)), maxErrorDetail)
	if detail == "" {
		detail = http.StatusText(statusCode)
	}
	return &domain.ProviderError{
		Provider:   provider,
		Err:        domain.ErrUpstream,
		StatusCode: statusCode,
		Detail:     detail,
	}
}

// transportError wraps a network, timeout or cancellation failure.
func transportError(provider domain.ProviderID, err error) error {
	detail := err.Error()
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		detail = "timeout: " + detail
	case errors.Is(err, context.Canceled):
		detail = "canceled: " + detail
	}
	return domain.NewProviderError(provider, domain.ErrTransport, truncate(detail, maxErrorDetail))
}

// isTransportError reports whether err came from the network or the context
// rather than from decoding a response.
func isTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
