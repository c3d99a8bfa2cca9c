package service

import (
	"context"
	"errors"
	"net/url"

	"github.com/vzahanych/weather-facade/internal/httpclient"
	"github.com/vzahanych/weather-facade/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var ErrEmptyCity = errors.New("city name must not be empty")

// CurrentQuery builds the weatherapi.com current.json query for a city,
// with air quality data included.
func CurrentQuery(apiKey, cityName string) url.Values {
	q := url.Values{}
	q.Set("key", apiKey)
	q.Set("q", cityName)
	q.Set("aqi", "yes")
	return q
}

// WeatherAPIService talks to weatherapi.com through a client whose base
// address already points at the current conditions endpoint.
type WeatherAPIService struct {
	client *httpclient.Client
	keys   KeySource
	logger *zap.Logger
	tele   *telemetry.Telemetry
}

func NewWeatherAPIService(client *httpclient.Client, keys KeySource, logger *zap.Logger, tele *telemetry.Telemetry) *WeatherAPIService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeatherAPIService{
		client: client,
		keys:   keys,
		logger: logger,
		tele:   tele,
	}
}

func (s *WeatherAPIService) Name() string {
	return "weather-api"
}

// GetWeatherData returns the raw provider body whatever the response status.
func (s *WeatherAPIService) GetWeatherData(ctx context.Context, cityName string) (string, error) {
	ctx, span := s.tele.GetTracer().Start(ctx, "weather-api.GetWeatherData")
	defer span.End()

	span.SetAttributes(
		attribute.String("city", cityName),
		attribute.String("service", s.Name()),
	)

	if cityName == "" {
		return "", ErrEmptyCity
	}

	apiKey, err := s.keys.APIKey()
	if err != nil {
		s.logger.Warn("WeatherAPI service called without API key", zap.String("city", cityName))
		s.tele.RecordError(ctx, err)
		return "", err
	}

	resp, err := s.client.Get(ctx, "?"+CurrentQuery(apiKey, cityName).Encode())
	if err != nil {
		s.tele.RecordError(ctx, err)
		return "", err
	}

	span.SetAttributes(attribute.Int("provider.status_code", resp.StatusCode))

	s.logger.Debug("WeatherAPI lookup completed",
		zap.String("city", cityName),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(resp.Body)))

	return string(resp.Body), nil
}
