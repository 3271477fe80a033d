// Package poem orchestrates poem generation: it resolves the persona and
// mood, walks the LLM providers in priority order and falls back to the
// backup templates so that a poem is always produced.
package poem

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"moodpoet/internal/domain"
	"moodpoet/internal/infra/tracer"
)

// BackupSource supplies template text when no provider succeeds.
type BackupSource interface {
	Get(poet domain.Poet, mood string) string
}

// GeneratorDeps holds injected dependencies for the generator.
type GeneratorDeps struct {
	Providers    []domain.TextProvider
	Backup       BackupSource
	Rand         domain.Rand
	Logger       *slog.Logger
	Options      domain.GenerateOptions // zero value uses domain.DefaultGenerateOptions
	DefaultMoods []string               // optional, nil = domain.DefaultMoods
	Preferred    domain.ProviderID      // optional, used when a request has no preference
	Observers    []Observer             // optional
}

// Generator produces poems. It is safe for concurrent use; the only state it
// shares across calls lives in the injected observers and random source.
type Generator struct {
	deps      GeneratorDeps
	providers map[domain.ProviderID]domain.TextProvider
}

// NewGenerator creates a generator with the given dependencies.
func NewGenerator(deps GeneratorDeps) *Generator {
	if deps.Options.MaxTokens <= 0 {
		deps.Options = domain.DefaultGenerateOptions()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	providers := make(map[domain.ProviderID]domain.TextProvider, len(deps.Providers))
	for _, p := range deps.Providers {
		providers[p.Name()] = p
	}
	return &Generator{deps: deps, providers: providers}
}

// Generate returns a poem for req. It never fails: when every provider is
// unconfigured or fails, the text comes from the backup templates.
func (g *Generator) Generate(ctx context.Context, req domain.PoemRequest) domain.Poem {
	poet := domain.ResolvePoet(req.Poet, g.deps.Rand)
	mood := domain.ResolveMood(req.Mood, g.deps.DefaultMoods, g.deps.Rand)

	ctx, span := tracer.StartSpan(ctx, "poem.generate",
		trace.WithAttributes(
			tracer.StringAttr("poem.poet", string(poet)),
			tracer.StringAttr("poem.preferred", string(req.Preferred)),
		),
	)
	defer span.End()

	result := domain.Poem{Poet: poet, Mood: mood}
	prompt := BuildPrompt(poet, mood)

	for _, p := range g.attemptOrder(req.Preferred) {
		if !p.Configured() {
			g.deps.Logger.Debug("provider skipped", "provider", p.Name(), "reason", "not configured")
			continue
		}
		if ctx.Err() != nil {
			g.deps.Logger.Warn("generation canceled before provider call", "provider", p.Name(), "error", ctx.Err())
			break
		}

		start := time.Now()
		text, err := g.complete(ctx, p, prompt)
		latency := time.Since(start)

		result.Attempts = append(result.Attempts, domain.Attempt{
			Provider: p.Name(),
			Code:     domain.ErrorCodeOf(err),
			Latency:  latency,
		})
		for _, o := range g.deps.Observers {
			o.ProviderAttempt(p.Name(), err, latency)
		}

		if err != nil {
			g.deps.Logger.Warn("provider failed",
				"provider", p.Name(),
				"code", domain.ErrorCodeOf(err),
				"latency", latency,
				"error", err,
			)
			continue
		}

		g.deps.Logger.Info("poem generated", "provider", p.Name(), "poet", poet, "latency", latency)
		tracer.SetOK(span)
		return g.finish(span, result, text, string(p.Name()))
	}

	g.deps.Logger.Warn("all providers unavailable, using backup poem", "poet", poet, "attempts", len(result.Attempts))
	tracer.SetOK(span)
	return g.finish(span, result, g.deps.Backup.Get(poet, mood), domain.SourceBackup)
}

func (g *Generator) finish(span trace.Span, result domain.Poem, body, source string) domain.Poem {
	result.Body = body
	result.Source = source
	result.Text = domain.FormatPoem(result.Poet, body)
	span.SetAttributes(
		tracer.StringAttr("poem.source", source),
		tracer.IntAttr("poem.attempts", len(result.Attempts)),
	)
	for _, o := range g.deps.Observers {
		o.PoemServed(source)
	}
	return result
}

// complete calls p once and treats blank text as a failure. A panicking
// provider is reported as an error rather than crashing the request.
func (g *Generator) complete(ctx context.Context, p domain.TextProvider, prompt string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("provider %s panicked: %v", p.Name(), r)
		}
	}()

	text, err = p.Complete(ctx, prompt, g.deps.Options)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.NewProviderError(p.Name(), domain.ErrEmptyCompletion, "blank text")
	}
	return text, nil
}

// attemptOrder returns the providers to try: the preferred provider first
// (the request's, else the configured default), then the rest of the fixed
// order. Each provider appears at most once.
func (g *Generator) attemptOrder(preferred domain.ProviderID) []domain.TextProvider {
	if preferred == domain.ProviderNone {
		preferred = g.deps.Preferred
	}

	order := make([]domain.TextProvider, 0, len(domain.ProviderOrder))
	if p, ok := g.providers[preferred]; ok {
		order = append(order, p)
	}
	for _, id := range domain.ProviderOrder {
		if id == preferred {
			continue
		}
		if p, ok := g.providers[id]; ok {
			order = append(order, p)
		}
	}
	return order
}

// Providers describes every provider in the fixed order.
func (g *Generator) Providers() []domain.ProviderInfo {
	infos := make([]domain.ProviderInfo, 0, len(g.providers))
	for _, id := range domain.ProviderOrder {
		if p, ok := g.providers[id]; ok {
			infos = append(infos, p.Describe())
		}
	}
	return infos
}

// Preferred returns the configured default preference.
func (g *Generator) Preferred() domain.ProviderID { return g.deps.Preferred }
