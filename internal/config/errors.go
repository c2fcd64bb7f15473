package config

import (
	"errors"
)

// Sentinel error kinds for this package. Load wraps every failure in
// one of these so callers can errors.Is without parsing messages.
var (
	// ErrInvalidConfig marks a configuration that parsed but failed
	// validation (bad weights, sigma bounds, draw rate).
	ErrInvalidConfig = errors.New("invalid config")

	// ErrLoadConfig marks a failure to read or parse the config sources.
	ErrLoadConfig = errors.New("load config failed")
)
