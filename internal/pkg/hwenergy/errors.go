package hwenergy

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when a request exceeds the configured timeout.
	// The in-flight call is aborted; retrying is at the caller's discretion.
	ErrTimeout = errors.New("timeout occurred while connecting to the device")

	// ErrAPIDisabled is returned on HTTP 403: the local API is switched off
	// and has to be re-enabled in the HomeWizard Energy app.
	ErrAPIDisabled = errors.New("api disabled, enable the local API in the HomeWizard Energy app")
)

// TransportError wraps a connection-level failure: refused or reset
// connections, DNS failures, malformed response bodies.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("error occurred while communicating with the device: %v", e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// UnexpectedStatusError is returned for any response status other than
// 200 and 403.
type UnexpectedStatusError struct {
	StatusCode int
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("api request error (%d)", e.StatusCode)
}

// UnsupportedError is returned when an operation requires a capability this
// device model and firmware combination does not have.
type UnsupportedError struct {
	Operation string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s is not supported by this device", e.Operation)
}

// UnsupportedAPIVersionError is returned by Device when the reported API
// version does not match SupportedAPIVersion. Continuing would risk
// misinterpreting an incompatible payload shape.
type UnsupportedAPIVersionError struct {
	Expected string
	Actual   string
}

func (e *UnsupportedAPIVersionError) Error() string {
	return fmt.Sprintf("device runs api version %q, this client supports %q", e.Actual, e.Expected)
}

// InvalidArgumentError reports a local validation failure. It is returned
// before any network call is made.
type InvalidArgumentError struct {
	Field  string
	Reason string
	Hint   string
}

func (e *InvalidArgumentError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (hint: %s)", e.Field, e.Reason, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
