package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"lpr-console/internal/i18n"
)

const (
	APIVersion   = "/api/v1"
	APIKeyHeader = "X-API-Key"

	maxErrorBody = 64 << 10
)

// KeySource supplies the API key attached to outgoing requests. An empty key means the
// request goes out without the header.
type KeySource interface {
	Load(ctx context.Context) (string, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	catalog    *i18n.Catalog
	log        zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, keys KeySource, catalog *i18n.Catalog, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &keyTransport{
				base: http.DefaultTransport,
				keys: keys,
				log:  log,
			},
		},
		catalog: catalog,
		log:     log,
	}
}

// Do sends one request and decodes a 2xx JSON body into out. Any failure comes back as
// *APIError. Nothing is retried.
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := translateTransportError(err, c.catalog)
		c.log.Warn().
			Err(err).
			Str("method", method).
			Str("path", path).
			Str("kind", string(apiErr.Kind)).
			Msg("inference request failed")
		return apiErr
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("inference request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := translateStatus(resp.StatusCode, raw, c.catalog)
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("path", path).
			Str("kind", string(apiErr.Kind)).
			Str("detail", apiErr.Detail).
			Msg("inference api returned error")
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// keyTransport injects the stored API key into every outgoing request.
type keyTransport struct {
	base http.RoundTripper
	keys KeySource
	log  zerolog.Logger
}

func (t *keyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.keys == nil {
		return t.base.RoundTrip(req)
	}

	key, err := t.keys.Load(req.Context())
	if err != nil {
		t.log.Warn().Err(err).Msg("failed to load api key, sending request without it")
	}
	if key == "" {
		return t.base.RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	clone.Header.Set(APIKeyHeader, key)
	return t.base.RoundTrip(clone)
}
