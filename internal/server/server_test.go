package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-facade/internal/config"
	"github.com/vzahanych/weather-facade/internal/server/handlers"
	"go.uber.org/zap/zaptest"
)

const parisPayload = `{"location":{"name":"Paris"},"current":{"temp_c":21}}`

func newTestServer(t *testing.T, providerURL, apiKey string) *Server {
	t.Helper()

	cfg := config.NewDefaultConfig()
	cfg.APIKey = apiKey
	cfg.Weather.ProviderURL = providerURL
	cfg.Clients = map[string]config.ClientConfig{
		"weather": {BaseURL: providerURL},
	}

	srv, err := NewServer(config.NewHolder(cfg), zaptest.NewLogger(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestRetrievalPathsReturnJSONString(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, parisPayload)
	}))
	defer provider.Close()

	srv := newTestServer(t, provider.URL+"/v1/current.json", "abc123")

	for _, action := range []string{"GetFromSimpleClient", "GetFromNamedClient", "GetFromTypedClient"} {
		rec := get(t, srv, "/WeatherForecast/"+action+"?cityName=Paris")
		require.Equal(t, http.StatusOK, rec.Code, action)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

		var body string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), action)
		assert.Equal(t, parisPayload, body, action)
	}
}

func TestProviderErrorIsWrappedLikeSuccess(t *testing.T) {
	payload := `{"error":{"code":2006,"message":"API key is invalid."}}`
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, payload)
	}))
	defer provider.Close()

	srv := newTestServer(t, provider.URL, "wrong")

	rec := get(t, srv, "/WeatherForecast/GetFromTypedClient?cityName=Paris")
	require.Equal(t, http.StatusOK, rec.Code)

	var body string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, payload, body)
}

func TestMissingCityName(t *testing.T) {
	srv := newTestServer(t, "http://api.example.com/v1/current.json", "abc123")

	for _, target := range []string{
		"/WeatherForecast/GetFromTypedClient",
		"/WeatherForecast/GetFromNamedClient?cityName=",
	} {
		rec := get(t, srv, target)
		require.Equal(t, http.StatusBadRequest, rec.Code, target)

		var resp handlers.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "INVALID_PARAMS", resp.Code)
		require.Len(t, resp.Fields, 1)
		assert.Equal(t, "cityName", resp.Fields[0].Field)
	}
}

func TestErrorMapping(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	t.Run("missing api key", func(t *testing.T) {
		srv := newTestServer(t, deadURL, "")

		rec := get(t, srv, "/WeatherForecast/GetFromNamedClient?cityName=Paris")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "CONFIG_ERROR")
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := newTestServer(t, deadURL, "secret-key")

		rec := get(t, srv, "/WeatherForecast/GetFromSimpleClient?cityName=Paris")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "TRANSPORT_ERROR")
		assert.NotContains(t, rec.Body.String(), "secret-key")
	})

	t.Run("unknown named client", func(t *testing.T) {
		cfg := config.NewDefaultConfig()
		cfg.APIKey = "abc123"
		cfg.Weather.NamedClient = "missing"

		srv, err := NewServer(config.NewHolder(cfg), zaptest.NewLogger(t), nil)
		require.NoError(t, err)
		defer srv.Shutdown(context.Background())

		rec := get(t, srv, "/WeatherForecast/GetFromNamedClient?cityName=Paris")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "CLIENT_ERROR")
	})
}

func TestNewServerRejectsInvalidRegistration(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Clients["relative"] = config.ClientConfig{BaseURL: "/v1/current.json"}

	_, err := NewServer(config.NewHolder(cfg), zaptest.NewLogger(t), nil)
	assert.Error(t, err)
}

func TestHealthEndpoints(t *testing.T) {
	ready := newTestServer(t, "http://api.example.com/v1/current.json", "abc123")
	notReady := newTestServer(t, "http://api.example.com/v1/current.json", "")

	assert.Equal(t, http.StatusOK, get(t, ready, "/health").Code)
	assert.Equal(t, http.StatusOK, get(t, ready, "/health/live").Code)
	assert.Equal(t, http.StatusOK, get(t, ready, "/health/ready").Code)

	assert.Equal(t, http.StatusOK, get(t, notReady, "/health/live").Code)
	rec := get(t, notReady, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"api_key":"missing"`)
}

func TestMetricsEndpoint(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, parisPayload)
	}))
	defer provider.Close()

	srv := newTestServer(t, provider.URL, "abc123")

	get(t, srv, "/WeatherForecast/GetFromTypedClient?cityName=Paris")
	get(t, srv, "/WeatherForecast/GetFromTypedClient?cityName=Oslo")
	get(t, srv, "/WeatherForecast/GetFromNamedClient?cityName=Lima")

	rec := get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))

	body := rec.Body.String()
	assert.Contains(t, body, `weather_lookups_total{path="typed"} 2`)
	assert.Contains(t, body, `weather_lookups_total{path="named"} 1`)
	assert.Contains(t, body, `http_requests_total{method="GET",route="/WeatherForecast/GetFromTypedClient",status="200"} 2`)
	assert.Contains(t, body, `http_request_duration_seconds_count{method="GET",route="/WeatherForecast/GetFromNamedClient"} 1`)
	assert.NotContains(t, body, `weather_lookup_errors_total{path="typed"}`)
}

func TestRequestIDIsPropagated(t *testing.T) {
	srv := newTestServer(t, "http://api.example.com/v1/current.json", "abc123")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}
