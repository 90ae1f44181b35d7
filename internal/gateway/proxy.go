// Package gateway implements the public edge of the platform. It terminates
// nothing and owns no business rules: requests are checked for a well-formed,
// verifiable credential where required, then relayed verbatim to the owning
// service, and the service's envelope is relayed back untouched.
package gateway

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/marketbay/order-system/internal/api/metrics"
	"github.com/marketbay/order-system/internal/api/response"
)

// Headers relayed downstream in addition to Authorization.
var forwardedHeaders = []string{
	echo.HeaderContentType,
	echo.HeaderAuthorization,
	echo.HeaderXRequestID,
}

// Proxy forwards requests to a single downstream service.
type Proxy struct {
	name   string
	base   *url.URL
	client *http.Client
	log    zerolog.Logger
}

// NewProxy builds a proxy for the named service at baseURL. The timeout bounds
// the whole round trip; on expiry the caller gets a 503 envelope.
func NewProxy(name, baseURL string, timeout time.Duration, log zerolog.Logger) (*Proxy, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Proxy{
		name:   name,
		base:   base,
		client: &http.Client{Timeout: timeout},
		log:    log.With().Str("upstream", name).Logger(),
	}, nil
}

// Forward relays the incoming request to the downstream service, preserving
// method, path, query string, body and credential, and relays the downstream
// response status and body back as-is.
func (p *Proxy) Forward(c echo.Context) error {
	in := c.Request()

	target := *p.base
	target.Path = joinPath(p.base.Path, in.URL.Path)
	target.RawQuery = in.URL.RawQuery

	out, err := http.NewRequestWithContext(in.Context(), in.Method, target.String(), in.Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	for _, h := range forwardedHeaders {
		if v := in.Header.Get(h); v != "" {
			out.Header.Set(h, v)
		}
	}

	res, err := p.client.Do(out)
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues(p.name).Inc()
		p.log.Error().Err(err).Str("path", in.URL.Path).Msg("upstream unreachable")
		return response.Fail(c, http.StatusServiceUnavailable,
			response.CodeServiceUnavailable, p.name+" service is unavailable")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues(p.name).Inc()
		p.log.Error().Err(err).Str("path", in.URL.Path).Msg("upstream response truncated")
		return response.Fail(c, http.StatusServiceUnavailable,
			response.CodeServiceUnavailable, p.name+" service is unavailable")
	}

	contentType := res.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}
	return c.Blob(res.StatusCode, contentType, body)
}

func joinPath(base, path string) string {
	base = strings.TrimSuffix(base, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
