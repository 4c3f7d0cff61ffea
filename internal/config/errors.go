// Package config provides configuration types and defaults for dofp.
package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidPreset indicates an unknown preset name was provided.
	ErrInvalidPreset = errors.New("invalid preset")

	// ErrInvalidSegmentDuration indicates a non-positive segment duration.
	ErrInvalidSegmentDuration = errors.New("segment duration out of range")

	// ErrInvalidLogging indicates an unknown log level or format.
	ErrInvalidLogging = errors.New("logging configuration invalid")
)
