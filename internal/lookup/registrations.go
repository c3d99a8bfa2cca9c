package lookup

import (
	"strings"
	"time"

	"github.com/vzahanych/weather-facade/internal/config"
	"github.com/vzahanych/weather-facade/internal/httpclient"
	"github.com/vzahanych/weather-facade/internal/service"
	"github.com/vzahanych/weather-facade/pkg/telemetry"
	"go.uber.org/zap"
)

// ClientName normalises a configured client identifier. Viper lowercases map
// keys, so names from the clients section and weather.named_client only meet
// when both are lowercased.
func ClientName(name string) string {
	return strings.ToLower(name)
}

// NewRegistrations declares every outbound client the process uses: one named
// client per entry under clients, plus the typed WeatherService bound to the
// provider URL.
func NewRegistrations(cfg *config.Config, keys service.KeySource, logger *zap.Logger, tele *telemetry.Telemetry) (*httpclient.Registrations, error) {
	regs := httpclient.NewRegistrations()

	for name, client := range cfg.Clients {
		err := regs.AddNamed(ClientName(name), httpclient.Options{
			BaseURL: client.BaseURL,
			Headers: client.Headers,
			Timeout: time.Duration(client.Timeout) * time.Second,
		})
		if err != nil {
			return nil, err
		}
	}

	err := httpclient.AddTyped(regs,
		httpclient.Options{
			BaseURL: cfg.Weather.ProviderURL,
			Headers: cfg.Weather.Headers,
			Timeout: time.Duration(cfg.Weather.Timeout) * time.Second,
		},
		func(c *httpclient.Client) service.WeatherService {
			return service.NewWeatherAPIService(c, keys, logger, tele)
		},
	)
	if err != nil {
		return nil, err
	}

	return regs, nil
}

// NewFromConfig wires a Lookup and the factory it draws clients from.
func NewFromConfig(holder *config.Holder, logger *zap.Logger, tele *telemetry.Telemetry) (*Lookup, *httpclient.Factory, error) {
	cfg := holder.Current()

	regs, err := NewRegistrations(cfg, holder, logger, tele)
	if err != nil {
		return nil, nil, err
	}

	factory := httpclient.NewFactory(regs, logger, tele)
	return New(factory, holder, cfg.Weather, logger, tele), factory, nil
}
