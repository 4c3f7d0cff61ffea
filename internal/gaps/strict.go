package gaps

import "github.com/five82/dofp/internal/quality"

// StrictDetector opens a gap at every strict decrease and closes it at the
// next strict increase.
//
// A gap that is still open when another decrease arrives is replaced, so a
// descending staircase keeps only its deepest step. A decrease at the
// second-to-last position (the segment about to play) closes at once with
// its predecessor as target, and the last position always forms a terminal
// gap aiming at the top level.
type StrictDetector struct{}

// Name implements Detector.
func (StrictDetector) Name() string { return string(StrategyStrict) }

// Detect implements Detector.
func (StrictDetector) Detect(seq quality.Sequence, levels int) []Gap {
	n := len(seq)
	top := quality.Level(levels - 1)

	var out []Gap
	open := -1
	for i := 1; i < n; i++ {
		cur, prev := seq[i], seq[i-1]
		switch {
		case cur < prev:
			if open >= 0 {
				out = out[:open]
			}
			out = append(out, Gap{Segments: []int{i}, Current: cur, Target: prev})
			switch i {
			case n - 1:
				out[len(out)-1].Target = top
				open = -1
			case n - 2:
				open = -1
			default:
				open = len(out) - 1
			}
		case cur == prev:
			if open >= 0 {
				out[open].Segments = append(out[open].Segments, i)
			}
		default:
			if open >= 0 {
				out[open].Target = min(out[open].Target, cur)
				open = -1
			}
		}
	}
	return out
}
