package providers

import (
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrConfiguration is fatal and only returned while wiring components.
	ErrConfiguration = errors.New("configuration error")

	ErrInvalidResponse   = errors.New("invalid response")
	ErrInvalidQuery      = errors.New("invalid location query")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// TransportError covers network failures, timeouts and non-2xx statuses.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: returned status code %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request was cut off by a deadline.
func (e *TransportError) Timeout() bool {
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// Retryable reports whether repeating the request may succeed.
func (e *TransportError) Retryable() bool {
	if e.StatusCode == 0 {
		return true
	}
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// IsTransport unwraps err into a *TransportError if it carries one.
func IsTransport(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
