package config

import "errors"

var (
	// ErrUnsupportedFormat is returned for config files that are neither
	// YAML nor TOML.
	ErrUnsupportedFormat = errors.New("unsupported config file format")

	// ErrInvalid wraps validation failures of the merged configuration.
	ErrInvalid = errors.New("invalid configuration")
)
