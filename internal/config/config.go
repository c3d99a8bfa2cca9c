package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
)

// ErrMissingConfiguration is returned when a required value is absent at call time.
var ErrMissingConfiguration = errors.New("missing configuration")

// Holder keeps the current configuration snapshot.
// Having config in atomic allows changing it during runtime.
type Holder struct {
	value atomic.Value
}

func NewHolder(cfg *Config) *Holder {
	h := &Holder{}
	h.Store(cfg)
	return h
}

func (h *Holder) Current() *Config {
	cfg, _ := h.value.Load().(*Config)
	return cfg
}

func (h *Holder) Store(cfg *Config) {
	h.value.Store(cfg)
}

// APIKey reads the provider key from the current snapshot on every call.
func (h *Holder) APIKey() (string, error) {
	cfg := h.Current()
	if cfg == nil || strings.TrimSpace(cfg.APIKey) == "" {
		return "", fmt.Errorf("%w: ApiKey", ErrMissingConfiguration)
	}
	return cfg.APIKey, nil
}

type Config struct {
	Version     string                  `mapstructure:"version"`
	Environment string                  `mapstructure:"environment"`
	APIKey      string                  `mapstructure:"apikey"`
	Server      ServerConfig            `mapstructure:"server"`
	Weather     WeatherConfig           `mapstructure:"weather"`
	Clients     map[string]ClientConfig `mapstructure:"clients"`
	Logging     LoggingConfig           `mapstructure:"logging"`
	Telemetry   TelemetryConfig         `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	IdleTimeout  int    `mapstructure:"idle_timeout"`
}

// WeatherConfig describes the provider and how each retrieval path reaches it.
type WeatherConfig struct {
	// ProviderURL is the absolute endpoint used by the anonymous client and
	// as the base address of the typed weather client.
	ProviderURL string `mapstructure:"provider_url"`
	// NamedClient is the registered client identifier used by the named path.
	NamedClient string            `mapstructure:"named_client"`
	Headers     map[string]string `mapstructure:"headers"`
	// Timeout in seconds for the typed client; 0 leaves the call bounded only by the caller's context.
	Timeout int `mapstructure:"timeout"`
}

// ClientConfig is a named outbound client registration.
type ClientConfig struct {
	BaseURL string            `mapstructure:"base_url"`
	Headers map[string]string `mapstructure:"headers"`
	Timeout int               `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

const DefaultProviderURL = "http://api.weatherapi.com/v1/current.json"

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
		},
		Weather: WeatherConfig{
			ProviderURL: DefaultProviderURL,
			NamedClient: "weather",
			Headers:     map[string]string{},
		},
		Clients: map[string]ClientConfig{
			"weather": {
				BaseURL: DefaultProviderURL,
				Headers: map[string]string{},
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Endpoint:    "tempo:4317",
			ServiceName: "weather-facade",
		},
	}
}
