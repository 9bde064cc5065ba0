package handler

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"dev-cors-proxy/internal/model"
	"dev-cors-proxy/internal/service"
)

// RelayHandler forwards prefixed requests to the remote origin.
type RelayHandler struct {
	service *service.RelayService
}

// NewRelayHandler creates a RelayHandler.
func NewRelayHandler(svc *service.RelayService) *RelayHandler {
	return &RelayHandler{service: svc}
}

// Handle relays the request to the origin and streams the response back.
func (h *RelayHandler) Handle(c echo.Context) error {
	req := c.Request()

	pr := &model.ProxyRequest{
		Ctx:           req.Context(),
		Method:        req.Method,
		Path:          req.URL.Path,
		RawPath:       req.URL.RawPath,
		RawQuery:      req.URL.RawQuery,
		Header:        req.Header,
		Body:          req.Body,
		ContentLength: req.ContentLength,
	}

	resp, err := h.service.Forward(pr)
	if err != nil {
		return h.mapError(c, err)
	}
	defer func() { _ = resp.Body.Close() }()
	c.Set(model.ContextKeyUpstreamURL, resp.URL)

	// Origin values replace anything already set on the response, including
	// cross-origin headers when the origin sends its own.
	header := c.Response().Header()
	for key, vals := range resp.Header {
		header[key] = vals
	}

	w := &flushWriter{res: c.Response()}
	c.Response().WriteHeader(resp.StatusCode)
	w.flush()

	// The status is already on the wire, so a failed copy (client disconnect,
	// origin reset) can only truncate the body. It is recorded for the
	// exchange log line.
	if _, err := io.Copy(w, resp.Body); err != nil {
		c.Set(model.ContextKeyRelayError, err)
	}

	return nil
}

// flushWriter sends each chunk to the client as soon as the origin produces it.
type flushWriter struct {
	res *echo.Response
}

func (w *flushWriter) Write(p []byte) (int, error) {
	n, err := w.res.Write(p)
	if n > 0 {
		w.flush()
	}
	return n, err
}

// flush ignores writers that cannot flush; echo's Response.Flush panics on them.
func (w *flushWriter) flush() {
	_ = http.NewResponseController(w.res.Writer).Flush()
}

func (h *RelayHandler) mapError(c echo.Context, err error) error {
	// Routes only send prefixed paths here. This covers the handler being
	// mounted on a broader route.
	if errors.Is(err, service.ErrPrefixMismatch) {
		return echo.ErrNotFound
	}

	c.Set(model.ContextKeyRelayError, err)
	status, msg := classifyTransportError(err)
	return c.JSON(status, map[string]string{"error": msg})
}

// classifyTransportError picks the status and message answered when the
// origin could not be reached. DNS errors are checked before url.Error, which
// wraps them.
func classifyTransportError(err error) (int, string) {
	var (
		netErr net.Error
		dnsErr *net.DNSError
		urlErr *url.Error
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return http.StatusGatewayTimeout, "upstream request timed out"
	case errors.Is(err, context.Canceled):
		return http.StatusBadGateway, "client disconnected"
	case errors.As(err, &dnsErr):
		return http.StatusBadGateway, "upstream host unreachable"
	case errors.As(err, &urlErr):
		return http.StatusBadGateway, "upstream connection failed"
	default:
		return http.StatusBadGateway, "upstream request failed"
	}
}
