// Package web serves the poem form, the JSON API and the diagnostic
// endpoints over a chi router.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"moodpoet/internal/domain"
	"moodpoet/internal/usecase/poem"
)

// MaxMoodRunes bounds the mood text accepted from a request.
const MaxMoodRunes = 500

// PoemService generates poems and describes its providers.
type PoemService interface {
	Generate(ctx context.Context, req domain.PoemRequest) domain.Poem
	Providers() []domain.ProviderInfo
	Preferred() domain.ProviderID
}

// HealthSource reports recent provider outcomes.
type HealthSource interface {
	Snapshot() []poem.ProviderHealth
	Served() map[string]int64
}

// Handler implements the HTTP endpoints.
type Handler struct {
	poems    PoemService
	health   HealthSource
	renderer *Renderer
	logger   *slog.Logger
}

// NewHandler creates a handler. health may be nil.
func NewHandler(poems PoemService, health HealthSource, logger *slog.Logger) *Handler {
	return &Handler{
		poems:    poems,
		health:   health,
		renderer: NewRenderer(),
		logger:   logger,
	}
}

var requestValidator = validator.New()

type poemRequest struct {
	Mood     string `json:"mood" validate:"max=500"`
	Poet     string `json:"poet" validate:"max=32"`
	Provider string `json:"provider" validate:"max=32"`
}

type attemptResponse struct {
	Provider  domain.ProviderID `json:"provider"`
	Code      domain.ErrorCode  `json:"code"`
	LatencyMS int64             `json:"latency_ms"`
}

type poemResponse struct {
	ID       string            `json:"id"`
	Poet     domain.Poet       `json:"poet"`
	Mood     string            `json:"mood"`
	Source   string            `json:"source"`
	Text     string            `json:"text"`
	Attempts []attemptResponse `json:"attempts"`
}

type providerStatus struct {
	domain.ProviderInfo
	Health *poem.ProviderHealth `json:"health,omitempty"`
}

type providersResponse struct {
	Preferred domain.ProviderID `json:"preferred"`
	Poets     []domain.Poet     `json:"poets"`
	Providers []providerStatus  `json:"providers"`
	Served    map[string]int64  `json:"served"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type pageData struct {
	Poets            []domain.Poet
	Providers        []domain.ProviderID
	MaxMood          int
	Mood             string
	SelectedPoet     string
	SelectedProvider string
	Poem             *poemView
}

type poemView struct {
	HTML       template.HTML
	Source     string
	FromBackup bool
}

// Index renders the empty form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, h.newPage())
}

// Compose handles the form submission and renders the page with a poem.
// Generation problems never produce an error page.
func (h *Handler) Compose(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.Debug("form parse failed", "error", err)
	}

	page := h.newPage()
	page.Mood = clampRunes(r.PostFormValue("mood"), MaxMoodRunes)
	page.SelectedPoet = r.PostFormValue("poet")
	page.SelectedProvider = r.PostFormValue("provider")

	preferred, err := domain.ParseProvider(page.SelectedProvider)
	if err != nil {
		h.logger.Debug("ignoring unknown provider in form", "provider", page.SelectedProvider)
		preferred = domain.ProviderNone
		page.SelectedProvider = ""
	}

	result := h.poems.Generate(r.Context(), domain.PoemRequest{
		Mood:      page.Mood,
		Poet:      page.SelectedPoet,
		Preferred: preferred,
	})

	body, err := h.renderer.PoemHTML(result.Text)
	if err != nil {
		h.logger.Warn("poem render failed, showing plain text", "error", err)
		body = template.HTML("<p>" + template.HTMLEscapeString(result.Text) + "</p>")
	}
	page.Poem = &poemView{HTML: body, Source: result.Source, FromBackup: result.FromBackup()}
	h.renderPage(w, page)
}

// CreatePoem handles POST /api/poems.
func (h *Handler) CreatePoem(w http.ResponseWriter, r *http.Request) {
	var req poemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := requestValidator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	preferred, err := domain.ParseProvider(req.Provider)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.poems.Generate(r.Context(), domain.PoemRequest{
		Mood:      req.Mood,
		Poet:      req.Poet,
		Preferred: preferred,
	})

	resp := poemResponse{
		ID:       uuid.NewString(),
		Poet:     result.Poet,
		Mood:     result.Mood,
		Source:   result.Source,
		Text:     result.Text,
		Attempts: make([]attemptResponse, 0, len(result.Attempts)),
	}
	for _, a := range result.Attempts {
		resp.Attempts = append(resp.Attempts, attemptResponse{
			Provider:  a.Provider,
			Code:      a.Code,
			LatencyMS: a.Latency.Milliseconds(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListProviders handles GET /api/providers. Only non-secret settings are
// reported.
func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) {
	health := make(map[domain.ProviderID]poem.ProviderHealth)
	served := map[string]int64{}
	if h.health != nil {
		for _, ph := range h.health.Snapshot() {
			health[ph.Provider] = ph
		}
		served = h.health.Served()
	}

	resp := providersResponse{
		Preferred: h.poems.Preferred(),
		Poets:     domain.Poets,
		Served:    served,
	}
	for _, info := range h.poems.Providers() {
		status := providerStatus{ProviderInfo: info}
		if ph, ok := health[info.Name]; ok {
			status.Health = &ph
		}
		resp.Providers = append(resp.Providers, status)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		h.logger.Error("failed to write health check response", "error", err)
	}
}

func (h *Handler) newPage() pageData {
	return pageData{
		Poets:     domain.Poets,
		Providers: domain.ProviderOrder,
		MaxMood:   MaxMoodRunes,
	}
}

func (h *Handler) renderPage(w http.ResponseWriter, page pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		h.logger.Error("page render failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fe.Field() + " fails " + fe.Tag() + "=" + fe.Param()
	}
	return "invalid request"
}

func clampRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

var _ PoemService = (*poem.Generator)(nil)
