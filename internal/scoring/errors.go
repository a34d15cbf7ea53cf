package scoring

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks an invalid scorer registration or lookup
	ErrConfiguration = errors.New("scoring configuration error")
	// ErrUnknownCategory is returned when a category key is not registered
	ErrUnknownCategory = errors.New("unknown category")
)

// ConfigError describes a configuration problem with a specific category
type ConfigError struct {
	Key    string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("scoring: %s", e.Reason)
	}
	return fmt.Sprintf("scoring: category %q: %s", e.Key, e.Reason)
}

// Unwrap allows errors.Is against ErrConfiguration and the specific cause
func (e *ConfigError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConfiguration}
	}
	return []error{ErrConfiguration, e.Err}
}
