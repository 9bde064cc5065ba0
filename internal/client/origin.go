// Package client provides the outbound HTTP client for the remote origin.
package client

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"dev-cors-proxy/internal/config"
	"dev-cors-proxy/internal/model"
)

// OriginClient sends requests to the remote origin.
type OriginClient struct {
	httpClient *http.Client
}

// NewOriginClient creates an OriginClient.
// Redirects are returned to the caller instead of being followed, and response
// bodies are never decompressed, so the relay sees exactly what the origin sent.
// No overall timeout applies unless upstream.timeout_seconds is set.
func NewOriginClient(cfg *config.Config) *OriginClient {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		DisableCompression:    true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &OriginClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// do executes an HTTP request against the origin and returns the raw response.
func (c *OriginClient) do(req *http.Request) (*model.ProxyResponse, error) {
	resp, err := c.httpClient.Do(req) //nolint:bodyclose // body ownership transfers to caller via ProxyResponse
	if err != nil {
		return nil, fmt.Errorf("upstream request: %w", err)
	}

	return &model.ProxyResponse{
		URL:        req.URL.String(),
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       resp.Body,
	}, nil
}

// DoStream executes a request and returns the response body as a stream.
// The caller is responsible for closing the returned ReadCloser.
// The provided context controls the lifetime of the upstream request:
// when the context is canceled (e.g. client disconnects), the upstream
// request is also canceled.
//
// contentLength is the declared body size; -1 marks it unknown.
func (c *OriginClient) DoStream(ctx context.Context, method, url string, header http.Header, body io.Reader, contentLength int64) (*model.ProxyResponse, error) {
	if body == nil || contentLength == 0 {
		body = http.NoBody
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header = header
	if body != http.NoBody {
		req.ContentLength = contentLength
	}

	return c.do(req)
}
