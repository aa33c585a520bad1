package strip

import (
	"fmt"
)

// HardwareInitError is returned when the channel could not be acquired. The node cannot serve
// anything without it.
type HardwareInitError struct {
	Driver string
	Err    error
}

func (e *HardwareInitError) Error() string {
	return fmt.Sprintf("native library init failed (%s): %v", e.Driver, e.Err)
}

func (e *HardwareInitError) Unwrap() error {
	return e.Err
}

// Cause lets github.com/pkg/errors walk through the wrapper.
func (e *HardwareInitError) Cause() error {
	return e.Err
}

// Warning is a configuration value that was replaced by a default.
type Warning struct {
	Field   string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Field, w.Message)
}
