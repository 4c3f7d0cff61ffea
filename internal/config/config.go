// Package config provides configuration types and defaults for dofp.
package config

import (
	"slices"

	"github.com/five82/dofp/internal/buffer"
	"github.com/five82/dofp/internal/engine"
	dofperrors "github.com/five82/dofp/internal/errors"
	"github.com/five82/dofp/internal/gaps"
	"github.com/five82/dofp/internal/logging"
	"github.com/five82/dofp/internal/quality"
)

// Default constants
const (
	// DefaultBufferCapacity is the total buffer size in seconds.
	DefaultBufferCapacity = 20.0

	// DefaultSegmentDuration is the playback length of one segment in seconds.
	DefaultSegmentDuration = 4.0

	// DefaultOneGapAtATime evaluates every gap against the original history.
	DefaultOneGapAtATime = true

	// DefaultMaximizeWhenBufferHigh spends the buffer surplus on repairs.
	DefaultMaximizeWhenBufferHigh = true

	// DefaultGapStrategy is the gap detector used by the engine.
	DefaultGapStrategy = string(gaps.StrategyStrict)

	// DefaultLogLevel is the log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the log handler format.
	DefaultLogFormat = string(logging.FormatText)
)

// BufferConfig describes the playback buffer.
type BufferConfig struct {
	Capacity        float64 `mapstructure:"capacity" yaml:"capacity"`
	LowFraction     float64 `mapstructure:"low_fraction" yaml:"low_fraction"`
	SaveFraction    float64 `mapstructure:"save_fraction" yaml:"save_fraction"`
	HighFraction    float64 `mapstructure:"high_fraction" yaml:"high_fraction"`
	SegmentDuration float64 `mapstructure:"segment_duration" yaml:"segment_duration"`
}

// PolicyConfig holds the decision policy flags.
type PolicyConfig struct {
	OneGapAtATime          bool   `mapstructure:"one_gap_at_a_time" yaml:"one_gap_at_a_time"`
	MaximizeWhenBufferHigh bool   `mapstructure:"maximize_when_buffer_high" yaml:"maximize_when_buffer_high"`
	GapStrategy            string `mapstructure:"gap_strategy" yaml:"gap_strategy"`
	Preset                 string `mapstructure:"preset" yaml:"preset,omitempty"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	File   string `mapstructure:"file" yaml:"file,omitempty"`
}

// Config holds all configuration for decision making.
type Config struct {
	// Bitrates is the quality ladder, one entry per level.
	Bitrates []float64     `mapstructure:"bitrates" yaml:"bitrates"`
	Buffer   BufferConfig  `mapstructure:"buffer" yaml:"buffer"`
	Policy   PolicyConfig  `mapstructure:"policy" yaml:"policy"`
	Logging  LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Bitrates: slices.Clone(quality.DefaultBitrates),
		Buffer: BufferConfig{
			Capacity:        DefaultBufferCapacity,
			LowFraction:     buffer.DefaultLowFraction,
			SaveFraction:    buffer.DefaultSaveFraction,
			HighFraction:    buffer.DefaultHighFraction,
			SegmentDuration: DefaultSegmentDuration,
		},
		Policy: PolicyConfig{
			OneGapAtATime:          DefaultOneGapAtATime,
			MaximizeWhenBufferHigh: DefaultMaximizeWhenBufferHigh,
			GapStrategy:            DefaultGapStrategy,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := c.BitrateTable(); err != nil {
		return err
	}

	if _, err := c.Thresholds(); err != nil {
		return err
	}

	if !(c.Buffer.SegmentDuration > 0) {
		return dofperrors.NewConfigError(ErrInvalidSegmentDuration,
			"segment_duration must be positive, got %v", c.Buffer.SegmentDuration)
	}

	if _, err := gaps.ParseStrategy(c.Policy.GapStrategy); err != nil {
		return err
	}

	if c.Policy.Preset != "" {
		if _, err := ParsePreset(c.Policy.Preset); err != nil {
			return err
		}
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return dofperrors.NewConfigError(ErrInvalidLogging, "%v", err)
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		return dofperrors.NewConfigError(ErrInvalidLogging, "%v", err)
	}

	return nil
}

// BitrateTable builds the validated bitrate table.
func (c *Config) BitrateTable() (quality.BitrateTable, error) {
	return quality.NewBitrateTable(c.Bitrates)
}

// Thresholds builds the buffer thresholds.
func (c *Config) Thresholds() (buffer.Thresholds, error) {
	return buffer.NewThresholds(c.Buffer.Capacity, buffer.Fractions{
		Low:  c.Buffer.LowFraction,
		Save: c.Buffer.SaveFraction,
		High: c.Buffer.HighFraction,
	})
}

// BufferState returns the buffer state for one decision.
func (c *Config) BufferState(occupancy, remainingCurrent float64) (buffer.State, error) {
	th, err := c.Thresholds()
	if err != nil {
		return buffer.State{}, err
	}
	return buffer.State{
		Occupancy:        occupancy,
		SegmentDuration:  c.Buffer.SegmentDuration,
		RemainingCurrent: remainingCurrent,
		Thresholds:       th,
	}, nil
}

// EngineConfig returns the decision settings for the given throughput.
func (c *Config) EngineConfig(throughput float64) (engine.Config, error) {
	table, err := c.BitrateTable()
	if err != nil {
		return engine.Config{}, err
	}
	strategy, err := gaps.ParseStrategy(c.Policy.GapStrategy)
	if err != nil {
		return engine.Config{}, err
	}
	detector, err := gaps.NewDetector(strategy)
	if err != nil {
		return engine.Config{}, err
	}
	return engine.Config{
		Bitrates:               table,
		Throughput:             throughput,
		OneGapAtATime:          c.Policy.OneGapAtATime,
		MaximizeWhenBufferHigh: c.Policy.MaximizeWhenBufferHigh,
		Detector:               detector,
	}, nil
}
