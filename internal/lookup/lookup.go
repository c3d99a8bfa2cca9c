package lookup

import (
	"context"
	"fmt"
	"net/url"

	"github.com/vzahanych/weather-facade/internal/config"
	"github.com/vzahanych/weather-facade/internal/httpclient"
	"github.com/vzahanych/weather-facade/internal/service"
	"github.com/vzahanych/weather-facade/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Path selects how the outbound client is provisioned for a lookup.
type Path string

const (
	PathSimple Path = "simple"
	PathNamed  Path = "named"
	PathTyped  Path = "typed"
)

func ParsePath(s string) (Path, error) {
	switch p := Path(s); p {
	case PathSimple, PathNamed, PathTyped:
		return p, nil
	default:
		return "", fmt.Errorf("unknown lookup path %q (want simple, named or typed)", s)
	}
}

// MetricsRecorder interface for recording metrics
type MetricsRecorder interface {
	RecordLookup(ctx context.Context, path string, success bool)
}

// Lookup serves current-weather requests over each client provisioning policy.
// All paths return the provider body as received.
type Lookup struct {
	factory     *httpclient.Factory
	keys        service.KeySource
	providerURL string
	namedClient string
	logger      *zap.Logger
	tele        *telemetry.Telemetry
	metrics     MetricsRecorder
}

func New(factory *httpclient.Factory, keys service.KeySource, cfg config.WeatherConfig, logger *zap.Logger, tele *telemetry.Telemetry) *Lookup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lookup{
		factory:     factory,
		keys:        keys,
		providerURL: cfg.ProviderURL,
		namedClient: ClientName(cfg.NamedClient),
		logger:      logger,
		tele:        tele,
	}
}

// SetMetricsRecorder sets the metrics recorder for the lookup
func (l *Lookup) SetMetricsRecorder(metrics MetricsRecorder) {
	l.metrics = metrics
}

func (l *Lookup) Get(ctx context.Context, path Path, cityName string) (string, error) {
	switch path {
	case PathSimple:
		return l.FromSimpleClient(ctx, cityName)
	case PathNamed:
		return l.FromNamedClient(ctx, cityName)
	case PathTyped:
		return l.FromTypedClient(ctx, cityName)
	default:
		_, err := ParsePath(string(path))
		return "", err
	}
}

// FromSimpleClient uses the anonymous client with a fully qualified URL.
func (l *Lookup) FromSimpleClient(ctx context.Context, cityName string) (string, error) {
	return l.run(ctx, PathSimple, cityName, func(ctx context.Context) (string, error) {
		apiKey, err := l.keys.APIKey()
		if err != nil {
			return "", err
		}

		u, err := url.Parse(l.providerURL)
		if err != nil {
			return "", fmt.Errorf("invalid provider url: %w", err)
		}
		u.RawQuery = service.CurrentQuery(apiKey, cityName).Encode()

		return body(l.factory.Client().Get(ctx, u.String()))
	})
}

// FromNamedClient looks the client up by its registered identifier and
// sends only the query, relative to the client's base address.
func (l *Lookup) FromNamedClient(ctx context.Context, cityName string) (string, error) {
	return l.run(ctx, PathNamed, cityName, func(ctx context.Context) (string, error) {
		client, err := l.factory.NamedClient(l.namedClient)
		if err != nil {
			return "", err
		}

		apiKey, err := l.keys.APIKey()
		if err != nil {
			return "", err
		}

		return body(client.Get(ctx, "?"+service.CurrentQuery(apiKey, cityName).Encode()))
	})
}

// FromTypedClient goes through the WeatherService bound to its own client.
func (l *Lookup) FromTypedClient(ctx context.Context, cityName string) (string, error) {
	return l.run(ctx, PathTyped, cityName, func(ctx context.Context) (string, error) {
		svc, err := httpclient.Typed[service.WeatherService](l.factory)
		if err != nil {
			return "", err
		}
		return svc.GetWeatherData(ctx, cityName)
	})
}

func (l *Lookup) run(ctx context.Context, path Path, cityName string, fetch func(context.Context) (string, error)) (string, error) {
	ctx, span := l.tele.GetTracer().Start(ctx, "lookup."+string(path))
	defer span.End()

	span.SetAttributes(
		attribute.String("lookup.path", string(path)),
		attribute.String("city", cityName),
	)

	if cityName == "" {
		return "", service.ErrEmptyCity
	}

	data, err := fetch(ctx)

	if l.metrics != nil {
		l.metrics.RecordLookup(ctx, string(path), err == nil)
	}

	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		l.tele.RecordError(ctx, err)
		l.logger.Warn("Weather lookup failed",
			zap.String("path", string(path)),
			zap.String("city", cityName),
			zap.Error(err))
		return "", err
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("bytes", len(data)),
	)

	return data, nil
}

func body(resp *httpclient.Response, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return string(resp.Body), nil
}
