package gaps

import "github.com/five82/dofp/internal/quality"

// ExtendedDetector groups the buffered positions into runs of equal level and
// treats every run lying below a neighbor as a gap aiming at the higher of its
// neighbors. The run ending at the second-to-last position aims at the top
// level. The last position always forms a terminal gap aiming at the top level.
//
// Position 0 is the segment being played and is never part of a gap.
type ExtendedDetector struct{}

// Name implements Detector.
func (ExtendedDetector) Name() string { return string(StrategyExtended) }

// Detect implements Detector.
func (ExtendedDetector) Detect(seq quality.Sequence, levels int) []Gap {
	n := len(seq)
	top := quality.Level(levels - 1)

	var out []Gap
	for start := 1; start < n-1; {
		end := start
		for end+1 < n-1 && seq[end+1] == seq[start] {
			end++
		}
		cur := seq[start]

		target := seq[start-1]
		if end == n-2 {
			target = top
		} else {
			target = max(target, seq[end+1])
		}

		if target > cur {
			members := make([]int, 0, end-start+1)
			for p := start; p <= end; p++ {
				members = append(members, p)
			}
			out = append(out, Gap{Segments: members, Current: cur, Target: target})
		}
		start = end + 1
	}

	if n > 0 {
		out = append(out, Gap{Segments: []int{n - 1}, Current: seq[n-1], Target: top})
	}
	return out
}
