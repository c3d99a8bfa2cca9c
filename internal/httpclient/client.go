package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/vzahanych/weather-facade/pkg/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Response is a fully read provider response.
type Response struct {
	StatusCode int
	Header     http.Header
	// Body holds the bytes exactly as received.
	Body []byte
}

// Client is a provisioned handle. It may share its transport with any number
// of other clients and is safe for concurrent use.
type Client struct {
	name   string
	base   *url.URL
	rest   *resty.Client
	logger *zap.Logger
	tele   *telemetry.Telemetry
}

// Name is the identifier the client was registered under; empty for the anonymous client.
func (c *Client) Name() string {
	return c.name
}

func (c *Client) BaseURL() string {
	if c.base == nil {
		return ""
	}
	return c.base.String()
}

// Resolve turns ref into the URL Get would request.
func (c *Client) Resolve(ref string) (*url.URL, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("httpclient: parse reference: %w", err)
	}

	if c.base == nil {
		if !u.IsAbs() || u.Host == "" {
			return nil, fmt.Errorf("%w: %q", ErrRelativeReference, redact(u))
		}
		return u, nil
	}

	if u.Scheme != "" || u.Host != "" {
		return nil, fmt.Errorf("%w: %q against %q", ErrForeignReference, redact(u), c.base.String())
	}

	return c.base.ResolveReference(u), nil
}

// Get issues a GET for ref and reads the whole body. Any status code is a
// successful exchange; only network failures return a *TransportError.
func (c *Client) Get(ctx context.Context, ref string) (*Response, error) {
	target, err := c.Resolve(ref)
	if err != nil {
		return nil, err
	}

	ctx, span := c.tele.GetTracer().Start(ctx, "httpclient.Get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.client", clientLabel(c.name)),
			attribute.String("http.method", http.MethodGet),
			attribute.String("server.address", target.Host),
			attribute.String("url.path", target.Path),
		),
	)
	defer span.End()

	req := c.rest.R().SetContext(ctx)

	carrier := propagation.HeaderCarrier(http.Header{})
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, key := range carrier.Keys() {
		req.SetHeader(key, carrier.Get(key))
	}

	resp, err := req.Get(target.String())
	if err != nil {
		terr := newTransportError(c.name, http.MethodGet, target, err)
		span.RecordError(terr)
		span.SetStatus(codes.Error, "transport failure")
		c.logger.Debug("Outbound request failed",
			zap.String("url", terr.URL),
			zap.Error(terr.Err))
		return nil, terr
	}

	span.SetAttributes(
		attribute.Int("http.status_code", resp.StatusCode()),
		attribute.Int("http.response_size", len(resp.Body())),
	)

	c.logger.Debug("Outbound request completed",
		zap.String("url", redact(target)),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("latency", resp.Time()))

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}
