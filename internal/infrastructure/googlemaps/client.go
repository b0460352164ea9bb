package googlemaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/maps-proxy/internal/config"
	"github.com/maps-proxy/internal/domain"
	"github.com/maps-proxy/internal/domain/repository"
	"github.com/maps-proxy/internal/metrics"
	"go.uber.org/zap"
)

const (
	keyParam     = "key"
	redacted     = "REDACTED"
	maxErrorBody = 512
)

type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewClient creates a Google Maps web services client. m may be nil.
func NewClient(cfg *config.MapsConfig, m *metrics.Metrics, logger *zap.Logger) repository.MapsRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		metrics: m,
		logger:  logger,
	}
}

func (c *client) Autocomplete(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return c.get(ctx, domain.EndpointAutocomplete, params)
}

func (c *client) PlaceDetails(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return c.get(ctx, domain.EndpointPlaceDetails, params)
}

func (c *client) Geocode(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return c.get(ctx, domain.EndpointGeocode, params)
}

// get adds the credential to a copy of params and performs a single GET.
func (c *client) get(ctx context.Context, endpoint domain.Endpoint, params url.Values) (json.RawMessage, error) {
	query := make(url.Values, len(params)+1)
	for k, v := range params {
		query[k] = append([]string(nil), v...)
	}
	query.Set(keyParam, c.apiKey)

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, query.Encode())

	c.logger.Debug("Calling Google Maps API",
		zap.String("endpoint", endpoint.Name()),
		zap.Int("params_count", len(params)))

	start := time.Now()
	body, err := c.do(ctx, endpoint, reqURL)
	c.observe(endpoint, start, err)

	return body, err
}

func (c *client) do(ctx context.Context, endpoint domain.Endpoint, reqURL string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.String("error", c.redact(err.Error())))
		return nil, errors.New(c.redact(fmt.Sprintf("failed to create request: %v", err)))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		msg := c.redact(err.Error())
		c.logger.Error("Failed to execute request",
			zap.String("endpoint", endpoint.Name()),
			zap.String("error", msg))
		return nil, &domain.UpstreamError{Message: msg}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		msg := c.redact(fmt.Sprintf("failed to read response: %v", err))
		c.logger.Error("Failed to read response", zap.String("endpoint", endpoint.Name()), zap.String("error", msg))
		return nil, &domain.UpstreamError{StatusCode: resp.StatusCode, Message: msg}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet := c.redact(truncate(body, maxErrorBody))
		c.logger.Error("Google Maps API returned error",
			zap.String("endpoint", endpoint.Name()),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", snippet))
		return nil, &domain.UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("maps API error: status %d, body: %s", resp.StatusCode, snippet),
		}
	}

	if !json.Valid(body) {
		c.logger.Error("Google Maps API returned invalid JSON", zap.String("endpoint", endpoint.Name()))
		return nil, fmt.Errorf("failed to decode response from %s: invalid JSON", endpoint.Name())
	}

	c.logger.Debug("Google Maps API call successful",
		zap.String("endpoint", endpoint.Name()),
		zap.Int("bytes", len(body)))

	return body, nil
}

func (c *client) observe(endpoint domain.Endpoint, start time.Time, err error) {
	if c.metrics == nil {
		return
	}

	outcome := "success"
	switch {
	case errors.Is(err, domain.ErrUpstream):
		outcome = "upstream_error"
	case err != nil:
		outcome = "invalid_response"
	}

	c.metrics.UpstreamRequests.WithLabelValues(endpoint.Name(), outcome).Inc()
	c.metrics.UpstreamSeconds.WithLabelValues(endpoint.Name()).Observe(time.Since(start).Seconds())
}

// redact strips the credential, raw or query-escaped, from s.
func (c *client) redact(s string) string {
	if c.apiKey == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.QueryEscape(c.apiKey), redacted)
	return strings.ReplaceAll(s, c.apiKey, redacted)
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}
