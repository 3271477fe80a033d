package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"moodpoet/internal/domain"
)

func TestProviderAttempt(t *testing.T) {
	m := New()

	m.ProviderAttempt(domain.ProviderOpenAI, nil, 120*time.Millisecond)
	m.ProviderAttempt(domain.ProviderOpenAI, domain.NewProviderError(domain.ProviderOpenAI, domain.ErrUpstream, ""), time.Second)
	m.ProviderAttempt(domain.ProviderHuggingFace, domain.NewProviderError(domain.ProviderHuggingFace, domain.ErrTransport, ""), time.Second)

	if got := testutil.ToFloat64(m.ProviderAttempts.WithLabelValues("openai", "ok")); got != 1 {
		t.Errorf("openai ok = %v", got)
	}
	if got := testutil.ToFloat64(m.ProviderAttempts.WithLabelValues("openai", "upstream")); got != 1 {
		t.Errorf("openai upstream = %v", got)
	}
	if got := testutil.ToFloat64(m.ProviderAttempts.WithLabelValues("huggingface", "transport")); got != 1 {
		t.Errorf("huggingface transport = %v", got)
	}
	if got := testutil.CollectAndCount(m.ProviderLatency); got != 2 {
		t.Errorf("latency series = %d, want 2", got)
	}
}

func TestPoemServed(t *testing.T) {
	m := New()
	m.PoemServed("backup")
	m.PoemServed("backup")
	m.PoemServed("azure_openai")

	if got := testutil.ToFloat64(m.PoemsServed.WithLabelValues("backup")); got != 2 {
		t.Errorf("backup = %v", got)
	}
	if got := testutil.ToFloat64(m.PoemsServed.WithLabelValues("azure_openai")); got != 1 {
		t.Errorf("azure_openai = %v", got)
	}
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/plain", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/items/1", "/items/2", "/plain", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/items/{id}", "418")); got != 2 {
		t.Errorf("/items/{id} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/plain", "200")); got != 1 {
		t.Errorf("/plain = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Errorf("unmatched = %v, want 1", got)
	}
}

func TestHandlerExposesServiceMetrics(t *testing.T) {
	m := New()
	m.PoemServed("backup")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	for _, want := range []string{`moodpoet_poems_total{source="backup"} 1`, "go_goroutines"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
