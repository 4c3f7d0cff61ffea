package config

import (
	"strings"

	dofperrors "github.com/five82/dofp/internal/errors"
)

// Preset represents a dofp policy preset.
type Preset string

const (
	PresetBalanced     Preset = "balanced"
	PresetConservative Preset = "conservative"
	PresetAggressive   Preset = "aggressive"
)

// ParsePreset parses a string into a Preset.
func ParsePreset(s string) (Preset, error) {
	switch strings.ToLower(s) {
	case "balanced":
		return PresetBalanced, nil
	case "conservative":
		return PresetConservative, nil
	case "aggressive":
		return PresetAggressive, nil
	default:
		return "", dofperrors.NewConfigError(ErrInvalidPreset,
			"'%s', valid options: balanced, conservative, aggressive", s)
	}
}

// String returns the string representation of the preset.
func (p Preset) String() string {
	return string(p)
}

// PresetValues contains bundled policy values for a preset.
type PresetValues struct {
	OneGapAtATime          bool
	MaximizeWhenBufferHigh bool
}

// GetPresetValues returns the values for a given preset.
func GetPresetValues(p Preset) PresetValues {
	switch p {
	case PresetConservative:
		// Repairs never compound and the surplus above the save threshold
		// is left in the buffer.
		return PresetValues{
			OneGapAtATime:          true,
			MaximizeWhenBufferHigh: false,
		}
	case PresetAggressive:
		return PresetValues{
			OneGapAtATime:          false,
			MaximizeWhenBufferHigh: true,
		}
	default:
		return PresetValues{
			OneGapAtATime:          DefaultOneGapAtATime,
			MaximizeWhenBufferHigh: DefaultMaximizeWhenBufferHigh,
		}
	}
}

// ApplyPreset applies the given preset to the config.
func (c *Config) ApplyPreset(p Preset) {
	values := GetPresetValues(p)
	c.Policy.Preset = p.String()
	c.Policy.OneGapAtATime = values.OneGapAtATime
	c.Policy.MaximizeWhenBufferHigh = values.MaximizeWhenBufferHigh
}
