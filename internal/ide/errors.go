package ide

import (
	"errors"
	"fmt"
)

// ErrEndpointNotFound is matched by every resolution failure.
var ErrEndpointNotFound = errors.New("IDE endpoint not found")

// NotFoundError names the candidates that were probed without success.
type NotFoundError struct {
	Host string
	// Port is the configured fixed port, or 0 when a range was scanned.
	Port int
	From int
	To   int
}

func (e *NotFoundError) Error() string {
	if e.Port != 0 {
		return fmt.Sprintf("no IDE answered on configured port %d at %s", e.Port, e.Host)
	}
	return fmt.Sprintf("no IDE answered on ports %d-%d at %s", e.From, e.To, e.Host)
}

func (e *NotFoundError) Unwrap() error {
	return ErrEndpointNotFound
}
