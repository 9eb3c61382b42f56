package navigation

import (
	"errors"
	"fmt"
)

var (
	// ErrEventNotRegistered is matched by every *ConfigurationError.
	ErrEventNotRegistered = errors.New("navigation event not registered")
	// ErrClosed is returned by operations on a closed Service.
	ErrClosed = errors.New("navigation service closed")
)

// ConfigurationError reports that the application's navigation event
// cannot be resolved. The service cannot deliver changes without it.
type ConfigurationError struct {
	Event string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("the event specified for location changes (%s) was not found", e.Event)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrEventNotRegistered
}
