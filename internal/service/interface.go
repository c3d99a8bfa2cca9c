package service

import "context"

// WeatherService looks up current conditions for a city and returns the
// provider's response body untouched.
type WeatherService interface {
	GetWeatherData(ctx context.Context, cityName string) (string, error)
	Name() string
}

// KeySource supplies the provider API key at call time.
type KeySource interface {
	APIKey() (string, error)
}
