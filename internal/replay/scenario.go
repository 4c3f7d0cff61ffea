// Package replay drives the decision engine over a recorded scenario, one
// scheduling opportunity per step.
package replay

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/five82/dofp/internal/config"
	dofperrors "github.com/five82/dofp/internal/errors"
	"github.com/five82/dofp/internal/quality"
)

var (
	ErrNoSteps       = errors.New("scenario has no steps")
	ErrEmptyHistory  = errors.New("scenario history is empty")
	ErrInvalidStep   = errors.New("invalid scenario step")
	ErrHistoryLength = errors.New("history must hold at least one buffered segment")
)

// Scenario is a recorded session: a starting window and the conditions seen
// at each later opportunity. Overrides replace the matching config values.
type Scenario struct {
	Name     string          `yaml:"name"`
	Bitrates []float64       `yaml:"bitrates,omitempty"`
	Buffer   *BufferOverride `yaml:"buffer,omitempty"`
	Policy   *PolicyOverride `yaml:"policy,omitempty"`
	// History is the starting window, e.g. "6,5,5,6,6,?". An undecided
	// terminal is appended when the last entry is decided.
	History string `yaml:"history"`
	Steps   []Step `yaml:"steps"`
}

// BufferOverride holds optional buffer settings.
type BufferOverride struct {
	Capacity        *float64 `yaml:"capacity,omitempty"`
	LowFraction     *float64 `yaml:"low_fraction,omitempty"`
	SaveFraction    *float64 `yaml:"save_fraction,omitempty"`
	HighFraction    *float64 `yaml:"high_fraction,omitempty"`
	SegmentDuration *float64 `yaml:"segment_duration,omitempty"`
}

// PolicyOverride holds optional policy settings. A preset is applied before
// the explicit flags.
type PolicyOverride struct {
	Preset                 *string `yaml:"preset,omitempty"`
	OneGapAtATime          *bool   `yaml:"one_gap_at_a_time,omitempty"`
	MaximizeWhenBufferHigh *bool   `yaml:"maximize_when_buffer_high,omitempty"`
	GapStrategy            *string `yaml:"gap_strategy,omitempty"`
}

// Step is one scheduling opportunity.
type Step struct {
	Throughput float64 `yaml:"throughput"`
	Occupancy  float64 `yaml:"occupancy"`
	// Remaining is the playback time left in the current segment. It
	// defaults to the segment duration.
	Remaining *float64 `yaml:"remaining,omitempty"`
}

// LoadScenario reads a YAML scenario. Unknown keys are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, dofperrors.NewIOError("reading scenario", err)
	}

	sc, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = scenarioName(path)
	}
	return sc, nil
}

func scenarioName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// ParseScenario decodes a YAML scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, dofperrors.NewParseError("decoding scenario", err)
	}
	return &sc, nil
}

// Window parses the history into the starting window.
func (s *Scenario) Window() (quality.Sequence, error) {
	if strings.TrimSpace(s.History) == "" {
		return nil, dofperrors.NewConfigError(ErrEmptyHistory, "scenario %q", s.Name)
	}
	seq, err := quality.ParseSequence(s.History)
	if err != nil {
		return nil, err
	}
	if seq.Terminal().IsDecided() {
		seq = append(seq, quality.Undecided)
	}
	if len(seq) < 2 {
		return nil, dofperrors.NewConfigError(ErrHistoryLength, "got %q", s.History)
	}
	return seq, nil
}

// Apply returns a copy of base with the scenario overrides applied.
func (s *Scenario) Apply(base *config.Config) (*config.Config, error) {
	cfg := *base
	cfg.Bitrates = slices.Clone(base.Bitrates)

	if len(s.Bitrates) > 0 {
		cfg.Bitrates = slices.Clone(s.Bitrates)
	}

	if b := s.Buffer; b != nil {
		setFloat(&cfg.Buffer.Capacity, b.Capacity)
		setFloat(&cfg.Buffer.LowFraction, b.LowFraction)
		setFloat(&cfg.Buffer.SaveFraction, b.SaveFraction)
		setFloat(&cfg.Buffer.HighFraction, b.HighFraction)
		setFloat(&cfg.Buffer.SegmentDuration, b.SegmentDuration)
	}

	if p := s.Policy; p != nil {
		if p.Preset != nil {
			preset, err := config.ParsePreset(*p.Preset)
			if err != nil {
				return nil, err
			}
			cfg.ApplyPreset(preset)
		}
		if p.OneGapAtATime != nil {
			cfg.Policy.OneGapAtATime = *p.OneGapAtATime
		}
		if p.MaximizeWhenBufferHigh != nil {
			cfg.Policy.MaximizeWhenBufferHigh = *p.MaximizeWhenBufferHigh
		}
		if p.GapStrategy != nil {
			cfg.Policy.GapStrategy = *p.GapStrategy
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// Validate checks the scenario steps.
func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return dofperrors.NewConfigError(ErrNoSteps, "scenario %q", s.Name)
	}
	for i, st := range s.Steps {
		if st.Throughput < 0 || st.Occupancy < 0 {
			return dofperrors.NewConfigError(ErrInvalidStep,
				"step %d: throughput and occupancy must be non-negative", i+1)
		}
		if st.Remaining != nil && *st.Remaining < 0 {
			return dofperrors.NewConfigError(ErrInvalidStep,
				"step %d: remaining must be non-negative", i+1)
		}
	}
	return nil
}
