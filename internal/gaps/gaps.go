// Package gaps finds runs of buffered segments sitting below their neighbors
// and orders them for repair.
package gaps

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	dofperrors "github.com/five82/dofp/internal/errors"
	"github.com/five82/dofp/internal/quality"
)

// Gap is a run of consecutive positions holding the same level, together with
// the level the run should be raised to.
type Gap struct {
	// Segments are the member positions in ascending order.
	Segments []int
	// Current is the level the members hold. The terminal gap holds Undecided.
	Current quality.Level
	// Target is the level repairs aim for.
	Target quality.Level
}

// Last returns the highest member position.
func (g Gap) Last() int {
	return g.Segments[len(g.Segments)-1]
}

// Reversed returns the member positions from last to first.
func (g Gap) Reversed() []int {
	out := slices.Clone(g.Segments)
	slices.Reverse(out)
	return out
}

func (g Gap) String() string {
	parts := make([]string, len(g.Segments))
	for i, s := range g.Segments {
		parts[i] = fmt.Sprint(s)
	}
	return fmt.Sprintf("[%s]@%s->%s", strings.Join(parts, " "), g.Current, g.Target)
}

// Detector finds gaps in a quality sequence whose last position is the
// undecided next segment.
type Detector interface {
	Detect(seq quality.Sequence, levels int) []Gap
	Name() string
}

// Strategy selects a Detector.
type Strategy string

const (
	// StrategyStrict opens gaps on strict decreases and closes them on the
	// next rise, aiming for the lower of the two boundaries.
	StrategyStrict Strategy = "strict"
	// StrategyExtended groups equal runs and aims for the higher neighbor.
	StrategyExtended Strategy = "extended"
)

// ErrUnknownStrategy is returned for an unrecognized strategy name.
var ErrUnknownStrategy = errors.New("unknown gap strategy")

// ParseStrategy converts a strategy name (case-insensitive) to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return StrategyStrict, nil
	case "extended":
		return StrategyExtended, nil
	default:
		return "", dofperrors.NewConfigError(ErrUnknownStrategy, "%q (valid: strict, extended)", s)
	}
}

// NewDetector returns the detector for s.
func NewDetector(s Strategy) (Detector, error) {
	switch s {
	case StrategyStrict, "":
		return StrictDetector{}, nil
	case StrategyExtended:
		return ExtendedDetector{}, nil
	default:
		return nil, dofperrors.NewConfigError(ErrUnknownStrategy, "%q (valid: strict, extended)", s)
	}
}

// Order returns gaps sorted by ascending current level, worst first. The sort
// is stable, so equal levels keep detection order. The input is not modified.
func Order(gaps []Gap) []Gap {
	out := slices.Clone(gaps)
	slices.SortStableFunc(out, func(a, b Gap) int {
		return int(a.Current) - int(b.Current)
	})
	return out
}
