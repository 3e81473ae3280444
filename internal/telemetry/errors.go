package telemetry

import (
	"errors"
	"fmt"
)

var ErrForbidden = errors.New("viewer cannot manage options")

// TransportError wraps a failure to initiate the check-in request
// (resolution, connect, write). The throttle marker is never advanced
// when Send returns one.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("telemetry transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
