// Package dofp decides segment qualities for adaptive streaming players.
//
// At every scheduling opportunity the engine picks the quality of the next
// segment and, when the buffer allows it, raises buffered segments that sit
// in quality gaps. The choice maximizes a score that rewards quality and
// penalizes switches.
//
// Basic usage:
//
//	eng, err := dofp.New(
//	    dofp.WithPreset(dofp.PresetConservative),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	seq, _ := dofp.ParseSequence("6,5,5,6,6,?")
//	d, err := eng.Decide(seq, dofp.Input{
//	    Occupancy:        16.743,
//	    RemainingCurrent: 1,
//	    Throughput:       3634,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("next segment at level %d, fetch %v\n", d.Terminal, d.FetchOrder)
package dofp

import (
	"context"
	"slices"

	"github.com/five82/dofp/internal/config"
	"github.com/five82/dofp/internal/engine"
	dofperrors "github.com/five82/dofp/internal/errors"
	"github.com/five82/dofp/internal/quality"
	"github.com/five82/dofp/internal/replay"
	"github.com/five82/dofp/internal/reporter"
)

// Re-export sequence types
type (
	Level    = quality.Level
	Sequence = quality.Sequence
	Decision = engine.Decision
)

// Undecided marks the position whose quality is still to be chosen.
const Undecided = quality.Undecided

// ParseSequence parses a sequence such as "6,5,5,6,6,?".
func ParseSequence(s string) (Sequence, error) {
	return quality.ParseSequence(s)
}

// Re-export preset types
type Preset = config.Preset

const (
	PresetBalanced     = config.PresetBalanced
	PresetConservative = config.PresetConservative
	PresetAggressive   = config.PresetAggressive
)

// ParsePreset converts a preset string to a Preset value.
// Valid values are "balanced", "conservative", and "aggressive" (case-insensitive).
func ParsePreset(s string) (Preset, error) {
	return config.ParsePreset(s)
}

// Reporter receives replay events.
type Reporter = reporter.Reporter

// ReplaySummary describes a finished replay.
type ReplaySummary = reporter.ScenarioSummary

// IsConfigError reports whether err comes from invalid settings.
func IsConfigError(err error) bool {
	return dofperrors.IsConfig(err)
}

// IsPolicyError reports whether err comes from a sequence the engine must
// not decide.
func IsPolicyError(err error) bool {
	return dofperrors.IsPolicy(err)
}

// Engine is the main entry point for decisions.
type Engine struct {
	config *config.Config
}

// Input is what the player knows at a scheduling opportunity.
type Input struct {
	// Occupancy is the buffered playback time in seconds.
	Occupancy float64
	// RemainingCurrent is the playback time left on the playing segment.
	RemainingCurrent float64
	// Throughput is the estimated bandwidth in kbps.
	Throughput float64
}

// Option configures the engine.
type Option func(*config.Config)

// New creates a new Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	cfg := config.NewConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Engine{config: cfg}, nil
}

// WithPreset applies a policy preset.
func WithPreset(p Preset) Option {
	return func(c *config.Config) {
		c.ApplyPreset(p)
	}
}

// WithBitrates sets the bitrate ladder in kbps, lowest level first.
func WithBitrates(kbps []float64) Option {
	return func(c *config.Config) {
		c.Bitrates = slices.Clone(kbps)
	}
}

// WithBufferCapacity sets the buffer capacity in seconds.
func WithBufferCapacity(seconds float64) Option {
	return func(c *config.Config) {
		c.Buffer.Capacity = seconds
	}
}

// WithThresholdFractions sets the low, save and high thresholds as
// fractions of the capacity.
func WithThresholdFractions(low, save, high float64) Option {
	return func(c *config.Config) {
		c.Buffer.LowFraction = low
		c.Buffer.SaveFraction = save
		c.Buffer.HighFraction = high
	}
}

// WithSegmentDuration sets the playback length of one segment in seconds.
func WithSegmentDuration(seconds float64) Option {
	return func(c *config.Config) {
		c.Buffer.SegmentDuration = seconds
	}
}

// WithOneGapAtATime evaluates each gap against the original history when
// enabled, and accumulates repairs across gaps otherwise.
func WithOneGapAtATime(enable bool) Option {
	return func(c *config.Config) {
		c.Policy.OneGapAtATime = enable
	}
}

// WithMaximizeWhenBufferHigh spends the surplus above the save threshold
// when the buffer is above the high threshold.
func WithMaximizeWhenBufferHigh(enable bool) Option {
	return func(c *config.Config) {
		c.Policy.MaximizeWhenBufferHigh = enable
	}
}

// WithGapStrategy selects the gap detector, "strict" or "extended".
func WithGapStrategy(name string) Option {
	return func(c *config.Config) {
		c.Policy.GapStrategy = name
	}
}

// Decide resolves the undecided terminal of seq and the repairs worth
// fetching. An unaffordable terminal is not an error: the decision falls
// back to level 0 and is marked infeasible.
func (e *Engine) Decide(seq Sequence, in Input) (*Decision, error) {
	state, err := e.config.BufferState(in.Occupancy, in.RemainingCurrent)
	if err != nil {
		return nil, err
	}
	ecfg, err := e.config.EngineConfig(in.Throughput)
	if err != nil {
		return nil, err
	}
	return engine.Decide(seq, state, ecfg)
}

// Replay runs the YAML scenario at path through the engine.
// Scenario overrides apply on top of the engine settings.
func (e *Engine) Replay(ctx context.Context, path string, rep Reporter) (*ReplaySummary, error) {
	sc, err := replay.LoadScenario(path)
	if err != nil {
		return nil, err
	}

	res, err := replay.Run(ctx, sc, e.config, rep)
	if err != nil {
		return nil, err
	}
	return &res.Summary, nil
}
