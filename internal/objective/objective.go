// Package objective scores quality sequences by mean quality and smoothness.
package objective

import "github.com/five82/dofp/internal/quality"

// Alpha weights mean quality against instability.
const Alpha = 0.8

// Factors holds the two terms of the objective.
type Factors struct {
	// Quality is the normalized mean level, in [0, 1).
	Quality float64
	// Instability is the normalized total variation between neighbors.
	Instability float64
}

// Score combines the factors into a single value. Higher is better.
func (f Factors) Score() float64 {
	return Alpha*f.Quality - (1-Alpha)*f.Instability
}

// Evaluate computes the objective factors of seq for a table with the given
// number of levels. Undecided positions contribute nothing, and a switch into
// level 0 is weighted as if its destination were level 1.
func Evaluate(seq quality.Sequence, levels int) Factors {
	n := len(seq)
	if n == 0 || levels <= 0 {
		return Factors{}
	}

	var sum int
	for _, l := range seq {
		if l.IsDecided() {
			sum += int(l)
		}
	}

	var variation float64
	for i := 0; i+1 < n; i++ {
		cur, next := seq[i], seq[i+1]
		if !cur.IsDecided() || !next.IsDecided() {
			continue
		}
		diff := int(cur) - int(next)
		if diff < 0 {
			diff = -diff
		}
		if diff == 0 {
			continue
		}
		variation += float64(diff) / (float64(n) * float64(max(int(next), 1)))
	}

	return Factors{
		Quality:     float64(sum) / float64(n*levels),
		Instability: variation,
	}
}

// Score is shorthand for Evaluate(seq, levels).Score().
func Score(seq quality.Sequence, levels int) float64 {
	return Evaluate(seq, levels).Score()
}
