package httpclient

import (
	"fmt"
	"maps"
	"net/url"
	"reflect"
	"time"
)

// Options configures a provisioned client.
type Options struct {
	// BaseURL, when set, must be absolute. References passed to Get are
	// resolved against it; end it with "/" to treat the last segment as a directory.
	BaseURL string
	// Headers are sent with every request.
	Headers map[string]string
	// Timeout bounds a whole exchange. Zero means no client-side limit.
	Timeout time.Duration
}

type registration struct {
	opts Options
	base *url.URL
}

type typedRegistration struct {
	registration
	bind func(*Client) any
}

// Registrations collects client configurations during startup. Pass it to
// NewFactory once complete; the factory keeps its own copy.
type Registrations struct {
	named map[string]registration
	typed map[reflect.Type]typedRegistration
}

func NewRegistrations() *Registrations {
	return &Registrations{
		named: make(map[string]registration),
		typed: make(map[reflect.Type]typedRegistration),
	}
}

// AddNamed registers a client configuration under name.
func (r *Registrations) AddNamed(name string, opts Options) error {
	if name == "" {
		return ErrEmptyName
	}
	if _, exists := r.named[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateClient, name)
	}

	reg, err := newRegistration(opts)
	if err != nil {
		return fmt.Errorf("client %q: %w", name, err)
	}

	r.named[name] = reg
	return nil
}

// AddTyped binds consumer type T to a client configuration. bind receives the
// configured client and returns the consumer that wraps it.
func AddTyped[T any](r *Registrations, opts Options, bind func(*Client) T) error {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if bind == nil {
		return fmt.Errorf("client %s: nil constructor", typ)
	}
	if _, exists := r.typed[typ]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateClient, typ)
	}

	reg, err := newRegistration(opts)
	if err != nil {
		return fmt.Errorf("client %s: %w", typ, err)
	}

	r.typed[typ] = typedRegistration{
		registration: reg,
		bind:         func(c *Client) any { return bind(c) },
	}
	return nil
}

func newRegistration(opts Options) (registration, error) {
	reg := registration{
		opts: Options{
			BaseURL: opts.BaseURL,
			Headers: maps.Clone(opts.Headers),
			Timeout: opts.Timeout,
		},
	}

	if opts.BaseURL == "" {
		return reg, nil
	}

	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return reg, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if !base.IsAbs() || base.Host == "" {
		return reg, fmt.Errorf("%w: %q", ErrInvalidBaseURL, opts.BaseURL)
	}

	reg.base = base
	return reg, nil
}
