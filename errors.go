package imgstrip

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedMarkup marks markup the processor copied through
	// verbatim. It is logged, never returned.
	ErrMalformedMarkup = errors.New("malformed markup")

	// ErrMissingAttribute marks an <img> dropped for lack of a src
	// attribute. It is logged, never returned.
	ErrMissingAttribute = errors.New("missing attribute")

	// ErrInvalidConfigValue is returned, wrapped in *ConfigError, when a
	// recognised option holds an unsupported value.
	ErrInvalidConfigValue = errors.New("invalid config value")
)

// ConfigError reports a recognised configuration option holding a value
// it does not support.
type ConfigError struct {
	Option string
	Value  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("imgstrip error: option '%s' has invalid value '%s'", e.Option, e.Value)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfigValue }
