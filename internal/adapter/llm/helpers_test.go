package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"moodpoet/internal/domain"
)

func TestMapHTTPError(t *testing.T) {
	tests := []struct {
		status     int
		body       string
		wantDetail string
	}{
		{http.StatusTooManyRequests, `{"error":"rate limit exceeded"}`, `{"error":"rate limit exceeded"}`},
		{http.StatusUnauthorized, "", "Unauthorized"},
		{http.StatusBadGateway, "  bad gateway \n", "bad gateway"},
	}
	for _, tt := range tests {
		err := mapHTTPError(domain.ProviderHuggingFace, tt.status, []byte(tt.body))
		if !errors.Is(err, domain.ErrUpstream) {
			t.Errorf("status %d: expected ErrUpstream, got %v", tt.status, err)
		}
		var pe *domain.ProviderError
		if !errors.As(err, &pe) {
			t.Fatalf("status %d: not a ProviderError", tt.status)
		}
		if pe.StatusCode != tt.status || pe.Detail != tt.wantDetail {
			t.Errorf("status %d: got %+v", tt.status, pe)
		}
	}
}

func TestMapHTTPErrorTruncatesBody(t *testing.T) {
	err := mapHTTPError(domain.ProviderOpenAI, 500, []byte(strings.Repeat("错", 1000)))
	var pe *domain.ProviderError
	if !errors.As(err, &pe) {
		t.Fatal("not a ProviderError")
	}
	if n := len([]rune(pe.Detail)); n != maxErrorDetail+3 {
		t.Errorf("detail has %d runes, want %d", n, maxErrorDetail+3)
	}
}

func TestIsTransportError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{context.DeadlineExceeded, true},
		{fmt.Errorf("wrapped: %w", context.Canceled), true},
		{&net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{errors.New("invalid character"), false},
	}
	for _, tt := range tests {
		if got := isTransportError(tt.err); got != tt.want {
			t.Errorf("isTransportError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestDoJSONRequestConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := doJSONRequest(context.Background(), http.DefaultClient, domain.ProviderHuggingFace, url, []byte(`{}`), nil)
	if !errors.Is(err, domain.ErrTransport) {
		t.Errorf("err = %v, want ErrTransport", err)
	}
}

func TestDoJSONRequestAccepts2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Test") != "1" {
			t.Errorf("custom header missing")
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`ok`))
	}))
	defer srv.Close()

	body, err := doJSONRequest(context.Background(), srv.Client(), domain.ProviderHuggingFace, srv.URL, []byte(`{}`), map[string]string{"X-Test": "1"})
	if err != nil {
		t.Fatalf("doJSONRequest: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}
}

func TestNewPooledTransportDefaults(t *testing.T) {
	tr := NewPooledTransport(0)
	if tr.MaxIdleConnsPerHost != defaultMaxIdleConnsPerHost {
		t.Errorf("MaxIdleConnsPerHost = %d", tr.MaxIdleConnsPerHost)
	}
	if tr.TLSHandshakeTimeout != defaultConnTimeout {
		t.Errorf("TLSHandshakeTimeout = %v", tr.TLSHandshakeTimeout)
	}
	if c := NewHTTPClient(); c.Timeout != 0 {
		t.Errorf("client Timeout = %v, want 0 (per-call context deadlines)", c.Timeout)
	}
}
