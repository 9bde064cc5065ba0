// Package model defines shared types for the relay.
package model

import (
	"context"
	"io"
	"net/http"
)

// Echo context keys the relay handler fills in for the exchange logger.
const (
	ContextKeyUpstreamURL = "relay.upstream_url"
	ContextKeyRelayError  = "relay.error"
)

// ProxyRequest represents an inbound request to be forwarded to the origin.
type ProxyRequest struct {
	Ctx           context.Context
	Method        string
	Path          string
	RawPath       string // escaped form of Path, empty when the default encoding applies
	RawQuery      string
	Header        http.Header
	Body          io.ReadCloser
	ContentLength int64
}

// ProxyResponse represents the origin response to be streamed back.
type ProxyResponse struct {
	URL        string // origin URL the request was sent to
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}
