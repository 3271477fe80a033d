package llm

import (
	"net"
	"net/http"
	"time"
)

// Connection pool settings for the provider APIs: few hosts, sequential
// calls per request, long-lived connections.
const (
	defaultConnTimeout         = 5 * time.Second
	defaultMaxIdleConns        = 10
	defaultMaxIdleConnsPerHost = 4
	defaultIdleConnTimeout     = 90 * time.Second
)

// NewPooledTransport creates an http.Transport with connection pooling for
// the provider APIs. Per-call deadlines come from the request context, so
// only the dial and TLS handshake are bounded here.
func NewPooledTransport(connTimeout time.Duration) *http.Transport {
	if connTimeout <= 0 {
		connTimeout = defaultConnTimeout
	}
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: connTimeout,
		MaxIdleConns:        defaultMaxIdleConns,
		MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
		IdleConnTimeout:     defaultIdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}
}

// NewHTTPClient returns the client shared by all providers. It sets no
// overall Timeout; each provider bounds its call with context.WithTimeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Transport: NewPooledTransport(0)}
}
