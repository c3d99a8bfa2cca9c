package httpclient

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	// ErrUnknownClient is returned when a client is requested for an identifier
	// or type that was never registered.
	ErrUnknownClient = errors.New("httpclient: unknown client identifier")

	ErrEmptyName       = errors.New("httpclient: empty client identifier")
	ErrDuplicateClient = errors.New("httpclient: client already registered")
	ErrInvalidBaseURL  = errors.New("httpclient: base address must be an absolute URL")

	// ErrRelativeReference is returned when a client without a base address is
	// asked to GET something that is not a fully qualified URL.
	ErrRelativeReference = errors.New("httpclient: relative reference requires a base address")
	// ErrForeignReference is returned when a reference would leave the
	// client's base address for another scheme or host.
	ErrForeignReference = errors.New("httpclient: reference names its own scheme or host")

	// ErrTransport matches every *TransportError.
	ErrTransport = errors.New("httpclient: transport failure")
)

// TransportError reports a network-level failure of an outbound call: DNS,
// refused or reset connections, timeouts and cancellation. The provider's
// HTTP status never produces one.
type TransportError struct {
	Client string
	Method string
	// URL omits the query string, which may carry credentials.
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("httpclient: %s %s via %s client: %v", e.Method, e.URL, clientLabel(e.Client), e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func newTransportError(client, method string, target *url.URL, err error) *TransportError {
	redacted := redact(target)

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = redacted
	}

	return &TransportError{
		Client: client,
		Method: method,
		URL:    redacted,
		Err:    err,
	}
}

func redact(u *url.URL) string {
	c := *u
	c.RawQuery = ""
	c.ForceQuery = false
	c.Fragment = ""
	c.User = nil
	return c.String()
}

func clientLabel(name string) string {
	if name == "" {
		return "anonymous"
	}
	return name
}
