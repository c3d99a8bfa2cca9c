package httpclient

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/go-resty/resty/v2"
	"github.com/vzahanych/weather-facade/pkg/telemetry"
	"go.uber.org/zap"
)

// Factory hands out configured clients. Every client it issues shares one
// pooled transport, and a given identifier or type always gets the same
// configuration for the lifetime of the factory.
type Factory struct {
	transport *http.Transport
	anonymous *Client
	named     map[string]*Client
	typed     map[reflect.Type]typedClient
	logger    *zap.Logger
}

type typedClient struct {
	client *Client
	bind   func(*Client) any
}

func NewFactory(regs *Registrations, logger *zap.Logger, tele *telemetry.Telemetry) *Factory {
	if regs == nil {
		regs = NewRegistrations()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	f := &Factory{
		transport: http.DefaultTransport.(*http.Transport).Clone(),
		named:     make(map[string]*Client, len(regs.named)),
		typed:     make(map[reflect.Type]typedClient, len(regs.typed)),
		logger:    logger,
	}

	f.anonymous = f.newClient("", registration{}, tele)

	for name, reg := range regs.named {
		f.named[name] = f.newClient(name, reg, tele)
		logger.Info("Registered named HTTP client",
			zap.String("client", name),
			zap.String("base_url", reg.opts.BaseURL))
	}

	for typ, reg := range regs.typed {
		f.typed[typ] = typedClient{
			client: f.newClient(typ.String(), reg.registration, tele),
			bind:   reg.bind,
		}
		logger.Info("Registered typed HTTP client",
			zap.String("client", typ.String()),
			zap.String("base_url", reg.opts.BaseURL))
	}

	return f
}

func (f *Factory) newClient(name string, reg registration, tele *telemetry.Telemetry) *Client {
	rest := resty.NewWithClient(&http.Client{Transport: f.transport})
	rest.SetLogger(f.logger.Sugar())
	rest.SetDisableWarn(true)

	if len(reg.opts.Headers) > 0 {
		rest.SetHeaders(reg.opts.Headers)
	}
	if reg.opts.Timeout > 0 {
		rest.SetTimeout(reg.opts.Timeout)
	}

	return &Client{
		name:   name,
		base:   reg.base,
		rest:   rest,
		logger: f.logger.With(zap.String("client", clientLabel(name))),
		tele:   tele,
	}
}

// Client returns the anonymous client: no base address and no default headers.
func (f *Factory) Client() *Client {
	return f.anonymous
}

// NamedClient returns the client registered under name.
func (f *Factory) NamedClient(name string) (*Client, error) {
	c, ok := f.named[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClient, name)
	}
	return c, nil
}

// Typed returns a T wrapping the client registered for T with AddTyped.
func Typed[T any](f *Factory) (T, error) {
	var zero T

	typ := reflect.TypeOf((*T)(nil)).Elem()
	entry, ok := f.typed[typ]
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrUnknownClient, typ)
	}

	consumer, _ := entry.bind(entry.client).(T)
	return consumer, nil
}

// Close drops idle pooled connections.
func (f *Factory) Close() {
	f.transport.CloseIdleConnections()
}
