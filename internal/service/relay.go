// Package service implements the core relay forwarding logic.
package service

import (
	"errors"
	"fmt"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"dev-cors-proxy/internal/client"
	"dev-cors-proxy/internal/config"
	"dev-cors-proxy/internal/model"
)

// ErrPrefixMismatch is returned when a request path is not under the relay prefix.
var ErrPrefixMismatch = errors.New("request path is not under the relay prefix")

// hopByHopHeaders are headers that should not be forwarded by proxies.
var hopByHopHeaders = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// RelayService rewrites inbound requests onto the remote origin and forwards them.
type RelayService struct {
	client      *client.OriginClient
	prefix      string
	contentType string
	baseURL     *url.URL
}

// NewRelayService creates a RelayService.
func NewRelayService(c *client.OriginClient, cfg *config.Config) (*RelayService, error) {
	u, err := url.Parse(cfg.Upstream.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream base_url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("upstream base_url %q is not an absolute URL", cfg.Upstream.BaseURL)
	}

	return &RelayService{
		client:      c,
		prefix:      cfg.Relay.Prefix,
		contentType: cfg.Relay.ContentType,
		baseURL:     u,
	}, nil
}

// Forward sends a ProxyRequest to the origin and returns the response.
// The caller is responsible for closing the response body.
//
// Content-Type is always replaced with the configured value, whatever the
// inbound request declared.
func (s *RelayService) Forward(pr *model.ProxyRequest) (*model.ProxyResponse, error) {
	upstreamURL, err := s.UpstreamURL(pr.Path, pr.RawPath, pr.RawQuery)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.DoStream(pr.Ctx, pr.Method, upstreamURL, s.outboundHeaders(pr.Header), pr.Body, pr.ContentLength)
	if err != nil {
		return nil, fmt.Errorf("forward to upstream: %w", err)
	}

	removeHopByHop(resp.Header)
	return resp, nil
}

// UpstreamURL maps an inbound path onto the origin. The relay prefix is removed
// and the remainder is appended to the origin's base path; the query is kept as-is.
func (s *RelayService) UpstreamURL(path, rawPath, rawQuery string) (string, error) {
	rest, ok := StripPrefix(s.prefix, path)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrPrefixMismatch, path)
	}

	u := *s.baseURL
	u.Path = strings.TrimSuffix(s.baseURL.Path, "/") + rest
	u.RawPath = ""
	// URL.EscapedPath falls back to the default encoding when RawPath does not
	// decode to Path.
	if restRaw, ok := StripPrefix(s.prefix, rawPath); ok && rawPath != "" {
		u.RawPath = strings.TrimSuffix(s.baseURL.EscapedPath(), "/") + restRaw
	}
	u.RawQuery = rawQuery
	u.Fragment = ""

	return u.String(), nil
}

// StripPrefix removes a literal path prefix on a segment boundary.
// "{prefix}/x" yields "/x" and "{prefix}" alone yields "/"; any other path does
// not match.
func StripPrefix(prefix, path string) (string, bool) {
	switch {
	case path == prefix:
		return "/", true
	case strings.HasPrefix(path, prefix+"/"):
		return path[len(prefix):], true
	default:
		return "", false
	}
}

// outboundHeaders copies the end-to-end request headers and forces Content-Type.
func (s *RelayService) outboundHeaders(src http.Header) http.Header {
	dst := src.Clone()
	if dst == nil {
		dst = make(http.Header)
	}
	removeHopByHop(dst)
	dst.Del("Host")
	dst.Set("Content-Type", s.contentType)
	return dst
}

// removeHopByHop deletes the standard hop-by-hop headers and any header named
// in Connection.
func removeHopByHop(h http.Header) {
	for _, field := range h.Values("Connection") {
		for _, name := range strings.Split(field, ",") {
			if name = textproto.TrimString(name); name != "" {
				h.Del(name)
			}
		}
	}
	for _, name := range hopByHopHeaders {
		h.Del(name)
	}
}
