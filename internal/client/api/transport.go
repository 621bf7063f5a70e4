package api

import (
	"net"
	"net/http"
	"time"
)

const dialTimeout = 10 * time.Second

// TokenSource supplies the current bearer token, or "" when anonymous.
// The session store is the one implementation outside tests.
type TokenSource interface {
	Token() string
}

// TokenSourceFunc adapts a plain function to TokenSource.
type TokenSourceFunc func() string

func (f TokenSourceFunc) Token() string { return f() }

// authenticatedTransport adds the Authorization header to every request
// when a token is available.
type authenticatedTransport struct {
	underlying http.RoundTripper
	tokens     TokenSource
}

func (t *authenticatedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token := t.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return t.underlying.RoundTrip(req)
}

func newHTTPClient(tokens TokenSource, timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: dialTimeout}
	return &http.Client{
		Transport: &authenticatedTransport{
			underlying: &http.Transport{DialContext: dialer.DialContext},
			tokens:     tokens,
		},
		Timeout: timeout,
	}
}
