package scheduler

import (
	"errors"
	"fmt"
)

// ConfigurationError is a fatal input problem that aborts the run before any trial starts
type ConfigurationError struct {
	// Subject names the teacher or student the problem belongs to
	Subject string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for %q: %s", e.Subject, e.Reason)
}

// IsConfigurationError returns true if err wraps a ConfigurationError
func IsConfigurationError(err error) bool {
	var configErr *ConfigurationError
	return errors.As(err, &configErr)
}
