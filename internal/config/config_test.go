package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/dofp/internal/buffer"
	dofperrors "github.com/five82/dofp/internal/errors"
	"github.com/five82/dofp/internal/gaps"
	"github.com/five82/dofp/internal/quality"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, []float64{0, 107, 240, 346, 715, 1347, 2426, 4121}, cfg.Bitrates)
	assert.Equal(t, 20.0, cfg.Buffer.Capacity)
	assert.Equal(t, 0.25, cfg.Buffer.LowFraction)
	assert.Equal(t, 0.5, cfg.Buffer.SaveFraction)
	assert.Equal(t, 0.75, cfg.Buffer.HighFraction)
	assert.Equal(t, 4.0, cfg.Buffer.SegmentDuration)
	assert.True(t, cfg.Policy.OneGapAtATime)
	assert.True(t, cfg.Policy.MaximizeWhenBufferHigh)
	assert.Equal(t, "strict", cfg.Policy.GapStrategy)
	assert.NoError(t, cfg.Validate())

	cfg.Bitrates[1] = 999
	assert.Equal(t, 107.0, quality.DefaultBitrates[1], "NewConfig must not alias the default ladder")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name         string
		modify       func(*Config)
		wantErr      bool
		wantSentinel error
	}{
		{
			name:    "default config is valid",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:         "empty bitrates",
			modify:       func(c *Config) { c.Bitrates = nil },
			wantErr:      true,
			wantSentinel: quality.ErrEmptyBitrates,
		},
		{
			name:         "decreasing bitrates",
			modify:       func(c *Config) { c.Bitrates = []float64{0, 300, 200} },
			wantErr:      true,
			wantSentinel: quality.ErrDecreasingBitrates,
		},
		{
			name:         "save above high",
			modify:       func(c *Config) { c.Buffer.SaveFraction = 0.9 },
			wantErr:      true,
			wantSentinel: buffer.ErrThresholdOrder,
		},
		{
			name:         "zero capacity",
			modify:       func(c *Config) { c.Buffer.Capacity = 0 },
			wantErr:      true,
			wantSentinel: buffer.ErrInvalidCapacity,
		},
		{
			name:         "zero segment duration",
			modify:       func(c *Config) { c.Buffer.SegmentDuration = 0 },
			wantErr:      true,
			wantSentinel: ErrInvalidSegmentDuration,
		},
		{
			name:         "unknown strategy",
			modify:       func(c *Config) { c.Policy.GapStrategy = "greedy" },
			wantErr:      true,
			wantSentinel: gaps.ErrUnknownStrategy,
		},
		{
			name:         "unknown preset",
			modify:       func(c *Config) { c.Policy.Preset = "turbo" },
			wantErr:      true,
			wantSentinel: ErrInvalidPreset,
		},
		{
			name:         "unknown log level",
			modify:       func(c *Config) { c.Logging.Level = "chatty" },
			wantErr:      true,
			wantSentinel: ErrInvalidLogging,
		},
		{
			name:    "extended strategy is valid",
			modify:  func(c *Config) { c.Policy.GapStrategy = "extended" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantSentinel), "expected %v, got %v", tt.wantSentinel, err)
			assert.True(t, dofperrors.IsConfig(err), "expected a configuration error, got %v", err)
		})
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		input    string
		expected Preset
		wantErr  bool
	}{
		{"balanced", PresetBalanced, false},
		{"CONSERVATIVE", PresetConservative, false},
		{"Aggressive", PresetAggressive, false},
		{"turbo", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePreset(tt.input)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidPreset, "ParsePreset(%q)", tt.input)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got)
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := NewConfig()

	cfg.ApplyPreset(PresetAggressive)
	assert.False(t, cfg.Policy.OneGapAtATime)
	assert.True(t, cfg.Policy.MaximizeWhenBufferHigh)
	assert.Equal(t, "aggressive", cfg.Policy.Preset)

	cfg.ApplyPreset(PresetConservative)
	assert.True(t, cfg.Policy.OneGapAtATime)
	assert.False(t, cfg.Policy.MaximizeWhenBufferHigh)

	cfg.ApplyPreset(PresetBalanced)
	assert.True(t, cfg.Policy.OneGapAtATime)
	assert.True(t, cfg.Policy.MaximizeWhenBufferHigh)
}

func TestDerived(t *testing.T) {
	cfg := NewConfig()

	state, err := cfg.BufferState(16.743, 1)
	require.NoError(t, err)
	assert.Equal(t, 10.0, state.Thresholds.Save)
	assert.Equal(t, 15.0, state.Thresholds.High)
	assert.Equal(t, 4.0, state.SegmentDuration)

	cfg.Policy.GapStrategy = "extended"
	ec, err := cfg.EngineConfig(3634)
	require.NoError(t, err)
	assert.Equal(t, 8, ec.Bitrates.Levels())
	assert.Equal(t, 3634.0, ec.Throughput)
	assert.Equal(t, "extended", ec.Detector.Name())
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dofp.yaml")
	content := `
bitrates: [0, 200, 400, 800]
buffer:
  capacity: 30
  segment_duration: 2
policy:
  gap_strategy: extended
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 200, 400, 800}, cfg.Bitrates)
	assert.Equal(t, 30.0, cfg.Buffer.Capacity)
	assert.Equal(t, 2.0, cfg.Buffer.SegmentDuration)
	assert.Equal(t, 0.5, cfg.Buffer.SaveFraction)
	assert.Equal(t, "extended", cfg.Policy.GapStrategy)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Policy.OneGapAtATime)
}

func TestLoadPresetKeepsExplicitPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dofp.yaml")
	content := `
policy:
  preset: conservative
  one_gap_at_a_time: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Policy.MaximizeWhenBufferHigh, "preset value")
	assert.False(t, cfg.Policy.OneGapAtATime, "explicit value wins over preset")
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DOFP_BUFFER_CAPACITY", "40")
	t.Setenv("DOFP_POLICY_GAP_STRATEGY", "extended")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 40.0, cfg.Buffer.Capacity)
	assert.Equal(t, "extended", cfg.Policy.GapStrategy)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, dofperrors.IsKind(err, dofperrors.KindIO), "missing explicit file: %v", err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("buffer:\n  capacity: -1\n"), 0644))
	_, err = Load(path)
	assert.ErrorIs(t, err, buffer.ErrInvalidCapacity)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DOFP_LOGGING_LEVEL=warn\n"), 0644))

	t.Setenv("DOFP_LOGGING_LEVEL", "")
	require.NoError(t, os.Unsetenv("DOFP_LOGGING_LEVEL"))

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "warn", os.Getenv("DOFP_LOGGING_LEVEL"))

	chdir(t, dir)
	assert.NoError(t, LoadEnv(), "absent .env is not an error")
	assert.Error(t, LoadEnv(filepath.Join(dir, "nope.env")))
}
