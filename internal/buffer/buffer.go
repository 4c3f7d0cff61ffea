// Package buffer describes playback buffer state and the thresholds that gate
// how much download time the engine may spend.
package buffer

import (
	"errors"
	"math"

	dofperrors "github.com/five82/dofp/internal/errors"
)

// Default threshold fractions of the total buffer capacity.
const (
	// DefaultLowFraction is the low-water mark.
	DefaultLowFraction = 0.25
	// DefaultSaveFraction is the level below which only the next segment is fetched.
	DefaultSaveFraction = 0.5
	// DefaultHighFraction is the level above which surplus time may be spent on repairs.
	DefaultHighFraction = 0.75
)

// Sentinel errors for buffer validation.
var (
	ErrInvalidCapacity        = errors.New("buffer capacity must be positive")
	ErrThresholdOrder         = errors.New("thresholds must satisfy low <= save <= high <= capacity")
	ErrInvalidSegmentDuration = errors.New("segment duration must be positive")
	ErrNegativeOccupancy      = errors.New("buffer occupancy must be non-negative")
	ErrNegativeRemaining      = errors.New("remaining time of current segment must be non-negative")
)

// Fractions are threshold positions relative to capacity.
type Fractions struct {
	Low  float64
	Save float64
	High float64
}

// DefaultFractions returns the 25/50/75 percent split.
func DefaultFractions() Fractions {
	return Fractions{Low: DefaultLowFraction, Save: DefaultSaveFraction, High: DefaultHighFraction}
}

// Thresholds are absolute buffer levels in seconds.
type Thresholds struct {
	Capacity float64
	Low      float64
	Save     float64
	High     float64
}

// NewThresholds derives thresholds from a capacity and fractions.
func NewThresholds(capacity float64, f Fractions) (Thresholds, error) {
	if !(capacity > 0) || math.IsInf(capacity, 1) {
		return Thresholds{}, dofperrors.NewConfigError(ErrInvalidCapacity, "got %v", capacity)
	}
	t := Thresholds{
		Capacity: capacity,
		Low:      capacity * f.Low,
		Save:     capacity * f.Save,
		High:     capacity * f.High,
	}
	if err := t.Validate(); err != nil {
		return Thresholds{}, err
	}
	return t, nil
}

// Validate checks the threshold ordering.
func (t Thresholds) Validate() error {
	if !(t.Capacity > 0) {
		return dofperrors.NewConfigError(ErrInvalidCapacity, "got %v", t.Capacity)
	}
	if !(0 <= t.Low && t.Low <= t.Save && t.Save <= t.High && t.High <= t.Capacity) {
		return dofperrors.NewConfigError(ErrThresholdOrder,
			"low=%v save=%v high=%v capacity=%v", t.Low, t.Save, t.High, t.Capacity)
	}
	return nil
}

// State is the buffer as seen at one scheduling opportunity.
type State struct {
	// Occupancy is the buffered playback time in seconds.
	Occupancy float64
	// SegmentDuration is the playback length of one segment in seconds.
	SegmentDuration float64
	// RemainingCurrent is the playback time left on the segment being played.
	RemainingCurrent float64
	Thresholds       Thresholds
}

// Validate checks that the state is usable.
func (s State) Validate() error {
	if err := s.Thresholds.Validate(); err != nil {
		return err
	}
	if !(s.SegmentDuration > 0) {
		return dofperrors.NewConfigError(ErrInvalidSegmentDuration, "got %v", s.SegmentDuration)
	}
	if s.Occupancy < 0 || math.IsNaN(s.Occupancy) {
		return dofperrors.NewConfigError(ErrNegativeOccupancy, "got %v", s.Occupancy)
	}
	if s.RemainingCurrent < 0 || math.IsNaN(s.RemainingCurrent) {
		return dofperrors.NewConfigError(ErrNegativeRemaining, "got %v", s.RemainingCurrent)
	}
	return nil
}

// Deadline returns the seconds until the buffered segment at position pos
// starts playing. Position 0 is the segment currently playing.
func (s State) Deadline(pos int) float64 {
	return s.RemainingCurrent + float64(pos-1)*s.SegmentDuration
}
