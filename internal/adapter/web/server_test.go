package web

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodpoet/internal/infra/config"
)

func TestServerStartAndShutdown(t *testing.T) {
	cfg := config.Defaults().Server
	cfg.Addr = "127.0.0.1:0"
	router := NewRouter(RouterDeps{Poems: newFakePoems(), Logger: newTestLogger()})
	srv := NewServer(cfg, router, newTestLogger())

	require.NoError(t, srv.Start(context.Background()))
	require.NotEmpty(t, srv.Addr())

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err, ok := <-srv.Err():
		assert.False(t, ok, "unexpected serve error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServerStartListenError(t *testing.T) {
	cfg := config.Defaults().Server
	cfg.Addr = "256.0.0.1:bad"
	srv := NewServer(cfg, http.NotFoundHandler(), newTestLogger())
	assert.Error(t, srv.Start(context.Background()))
}

func TestServerRequestsOutliveStartContext(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	reqErr := make(chan error, 1)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		reqErr <- r.Context().Err()
		_, _ = w.Write([]byte("done"))
	})

	cfg := config.Defaults().Server
	cfg.Addr = "127.0.0.1:0"
	srv := NewServer(cfg, handler, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, srv.Start(ctx))

	respCh := make(chan *http.Response, 1)
	go func() {
		resp, err := http.Get("http://" + srv.Addr() + "/")
		if err != nil {
			respCh <- nil
			return
		}
		respCh <- resp
	}()

	<-entered
	cancel()
	close(release)

	assert.NoError(t, <-reqErr, "request context must not be canceled with the start context")
	resp := <-respCh
	require.NotNil(t, resp)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "done", string(body))

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	require.NoError(t, srv.Shutdown(shutdownCtx))
}
