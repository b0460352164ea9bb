package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/maps-proxy/internal/config"
	httpDelivery "github.com/maps-proxy/internal/delivery/http"
	"github.com/maps-proxy/internal/delivery/http/handler"
	"github.com/maps-proxy/internal/infrastructure/googlemaps"
	"github.com/maps-proxy/internal/metrics"
	"github.com/maps-proxy/internal/usecase"
)

const testAPIKey = "test-secret-key"

type upstream struct {
	server   *httptest.Server
	hits     atomic.Int32
	requests chan *url.URL
}

func newUpstream(t *testing.T, h http.HandlerFunc) *upstream {
	t.Helper()
	u := &upstream{requests: make(chan *url.URL, 16)}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.hits.Add(1)
		u.requests <- r.URL
		h(w, r)
	}))
	t.Cleanup(u.server.Close)
	return u
}

func newTestServer(t *testing.T, up *upstream, opts ...func(*config.Config)) *httpDelivery.Server {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0, Env: "test"},
		Maps: config.MapsConfig{
			APIKey:         testAPIKey,
			BaseURL:        up.server.URL,
			RequestTimeout: 2 * time.Second,
			Language:       "es",
			Components:     "country:mx",
			SearchRadius:   50000,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true},
		Log:  config.LogConfig{Level: "error"},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := zap.NewNop()
	reg := prometheus.NewRegistry()
	appMetrics := metrics.NewMetrics(reg)

	mapsRepo := googlemaps.NewClient(&cfg.Maps, appMetrics, logger)
	mapsUC := usecase.NewMapsUseCase(mapsRepo, &cfg.Maps, logger)

	return httpDelivery.NewServer(
		cfg,
		logger,
		reg,
		appMetrics,
		handler.NewMapsHandler(mapsUC, logger),
		handler.NewSystemHandler(),
	)
}

func okUpstream(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func doRequest(t *testing.T, s *httpDelivery.Server, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(body)
}

func get(t *testing.T, s *httpDelivery.Server, target string) (*http.Response, string) {
	t.Helper()
	return doRequest(t, s, httptest.NewRequest(http.MethodGet, target, nil))
}

type errorBody struct {
	Error struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, body string) errorBody {
	t.Helper()
	var eb errorBody
	require.NoError(t, json.Unmarshal([]byte(body), &eb))
	return eb
}

func TestServer_Health(t *testing.T) {
	up := newUpstream(t, okUpstream(`{}`))
	s := newTestServer(t, up)

	resp, body := get(t, s, "/health")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"healthy"}`, body)
	assert.EqualValues(t, 0, up.hits.Load())
}

func TestServer_Root(t *testing.T) {
	up := newUpstream(t, okUpstream(`{}`))
	s := newTestServer(t, up)

	resp, body := get(t, s, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var root struct {
		Status    string   `json:"status"`
		Message   string   `json:"message"`
		Endpoints []string `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &root))
	assert.Equal(t, "OK", root.Status)
	assert.NotEmpty(t, root.Message)
	assert.ElementsMatch(t, []string{"/api/maps/search-places", "/api/maps/place-details"}, root.Endpoints)
	assert.EqualValues(t, 0, up.hits.Load())
}

func TestServer_SearchPlaces(t *testing.T) {
	const payload = `{"predictions":[{"description":"Coyoacán, CDMX","place_id":"ChIJ1"}],"status":"OK"}`

	t.Run("relays provider body verbatim", func(t *testing.T) {
		up := newUpstream(t, okUpstream(payload))
		s := newTestServer(t, up)

		resp, body := get(t, s, "/api/maps/search-places?query=coyoacan")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, payload, body)
		assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
		assert.NotContains(t, body, testAPIKey)

		sent := <-up.requests
		q := sent.Query()
		assert.Equal(t, "/place/autocomplete/json", sent.Path)
		assert.Equal(t, testAPIKey, q.Get("key"))
		assert.Equal(t, "coyoacan", q.Get("input"))
		assert.Equal(t, "es", q.Get("language"))
		assert.Equal(t, "country:mx", q.Get("components"))
		assert.False(t, q.Has("radius"))
		assert.False(t, q.Has("location"))
	})

	t.Run("location adds radius", func(t *testing.T) {
		up := newUpstream(t, okUpstream(payload))
		s := newTestServer(t, up)

		resp, _ := get(t, s, "/api/maps/search-places?query=coyoacan&location="+url.QueryEscape("19.35,-99.16"))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		q := (<-up.requests).Query()
		assert.Equal(t, "19.35,-99.16", q.Get("location"))
		assert.Equal(t, "50000", q.Get("radius"))
	})

	t.Run("short query is rejected without outbound call", func(t *testing.T) {
		up := newUpstream(t, okUpstream(payload))
		s := newTestServer(t, up)

		for _, target := range []string{
			"/api/maps/search-places",
			"/api/maps/search-places?query=ab",
		} {
			resp, body := get(t, s, target)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
			assert.Equal(t, "INVALID_INPUT", decodeError(t, body).Error.Code)
		}
		assert.EqualValues(t, 0, up.hits.Load())
	})

	t.Run("malformed location is rejected", func(t *testing.T) {
		up := newUpstream(t, okUpstream(payload))
		s := newTestServer(t, up)

		for _, location := range []string{"north", "19.43", "1,2,3", ","} {
			resp, body := get(t, s, "/api/maps/search-places?query=coyoacan&location="+url.QueryEscape(location))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, location)
			eb := decodeError(t, body)
			assert.Equal(t, "INVALID_INPUT", eb.Error.Code, location)
			assert.Contains(t, eb.Error.Message, "location", location)
		}
		assert.EqualValues(t, 0, up.hits.Load())
	})

	t.Run("location is forwarded as given", func(t *testing.T) {
		up := newUpstream(t, okUpstream(payload))
		s := newTestServer(t, up)

		resp, _ := get(t, s, "/api/maps/search-places?query=coyoacan&location="+url.QueryEscape("19.4300,-99.1"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "19.4300,-99.1", (<-up.requests).Query().Get("location"))
	})

	t.Run("upstream timeout becomes 500", func(t *testing.T) {
		up := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
			w.Write([]byte(payload))
		})
		s := newTestServer(t, up, func(cfg *config.Config) {
			cfg.Maps.RequestTimeout = 50 * time.Millisecond
		})

		resp, body := get(t, s, "/api/maps/search-places?query=coyoacan")

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		eb := decodeError(t, body)
		assert.Equal(t, "UPSTREAM_ERROR", eb.Error.Code)
		assert.Contains(t, eb.Error.Message, "Error al consultar Google Maps: ")
		assert.Contains(t, eb.Error.Message, "Client.Timeout exceeded")
		assert.NotContains(t, body, testAPIKey)
		assert.NotContains(t, body, "goroutine")
	})

	t.Run("upstream error becomes 500", func(t *testing.T) {
		up := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"UNKNOWN_ERROR"}`))
		})
		s := newTestServer(t, up)

		resp, body := get(t, s, "/api/maps/search-places?query=coyoacan")

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		eb := decodeError(t, body)
		assert.Equal(t, "UPSTREAM_ERROR", eb.Error.Code)
		assert.Contains(t, eb.Error.Message, "Error al consultar Google Maps: ")
		assert.Contains(t, eb.Error.Message, "status 503")
		assert.NotContains(t, body, testAPIKey)
		assert.NotContains(t, body, "goroutine")
	})
}

func TestServer_PlaceDetails(t *testing.T) {
	const payload = `{"result":{"name":"Museo Frida Kahlo"},"status":"OK"}`

	t.Run("success", func(t *testing.T) {
		up := newUpstream(t, okUpstream(payload))
		s := newTestServer(t, up)

		resp, body := get(t, s, "/api/maps/place-details?place_id=ChIJ1")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, payload, body)

		sent := <-up.requests
		q := sent.Query()
		assert.Equal(t, "/place/details/json", sent.Path)
		assert.Equal(t, "ChIJ1", q.Get("place_id"))
		assert.Equal(t, testAPIKey, q.Get("key"))
		assert.Equal(t, "geometry,name,formatted_address,address_components", q.Get("fields"))
	})

	t.Run("missing place id", func(t *testing.T) {
		up := newUpstream(t, okUpstream(payload))
		s := newTestServer(t, up)

		resp, _ := get(t, s, "/api/maps/place-details")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.EqualValues(t, 0, up.hits.Load())
	})

	t.Run("invalid provider body is an internal error", func(t *testing.T) {
		up := newUpstream(t, okUpstream(`not json`))
		s := newTestServer(t, up)

		resp, body := get(t, s, "/api/maps/place-details?place_id=ChIJ1")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL_SERVER_ERROR", decodeError(t, body).Error.Code)
	})
}

func TestServer_Geocode(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		const payload = `{"results":[{"formatted_address":"Paseo de la Reforma 222"}],"status":"OK"}`
		up := newUpstream(t, okUpstream(payload))
		s := newTestServer(t, up)

		resp, body := get(t, s, "/api/maps/geocode?address="+url.QueryEscape("Paseo de la Reforma 222"))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, payload, body)

		sent := <-up.requests
		assert.Equal(t, "/geocode/json", sent.Path)
		assert.Equal(t, "Paseo de la Reforma 222", sent.Query().Get("address"))
		assert.Equal(t, "country:mx", sent.Query().Get("components"))
	})

	t.Run("missing address", func(t *testing.T) {
		up := newUpstream(t, okUpstream(`{}`))
		s := newTestServer(t, up)

		resp, _ := get(t, s, "/api/maps/geocode")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.EqualValues(t, 0, up.hits.Load())
	})

	t.Run("upstream error", func(t *testing.T) {
		up := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"status":"INVALID_REQUEST"}`))
		})
		s := newTestServer(t, up)

		resp, body := get(t, s, "/api/maps/geocode?address=x")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		eb := decodeError(t, body)
		assert.True(t, strings.HasPrefix(eb.Error.Message, "Error al geocodificar: "))
		assert.Contains(t, eb.Error.Message, "INVALID_REQUEST")
	})
}

func TestServer_CORS(t *testing.T) {
	up := newUpstream(t, okUpstream(`{}`))
	s := newTestServer(t, up)

	req := httptest.NewRequest(http.MethodOptions, "/api/maps/geocode", nil)
	req.Header.Set("Origin", "https://app.example.mx")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "X-Custom-Header")

	resp, _ := doRequest(t, s, req)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://app.example.mx", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "X-Custom-Header", resp.Header.Get("Access-Control-Allow-Headers"))
	assert.EqualValues(t, 0, up.hits.Load())
}

func TestServer_RequestIDAndNotFound(t *testing.T) {
	up := newUpstream(t, okUpstream(`{}`))
	s := newTestServer(t, up)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	req.Header.Set("X-Request-ID", "req-123")

	resp, body := doRequest(t, s, req)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "req-123", resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "NOT_FOUND", decodeError(t, body).Error.Code)

	resp, _ = get(t, s, "/health")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestServer_Metrics(t *testing.T) {
	up := newUpstream(t, okUpstream(`{"status":"OK"}`))
	s := newTestServer(t, up)

	resp, _ := get(t, s, "/api/maps/geocode?address=x")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := get(t, s, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "maps_proxy_upstream_requests_total")
	assert.Contains(t, body, `route="/api/maps/geocode"`)
}
