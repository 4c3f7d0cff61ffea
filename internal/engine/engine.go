// Package engine decides the quality of the next segment and which buffered
// segments to fetch again at a higher quality.
package engine

import (
	"github.com/five82/dofp/internal/buffer"
	"github.com/five82/dofp/internal/gaps"
	"github.com/five82/dofp/internal/logging"
	"github.com/five82/dofp/internal/objective"
	"github.com/five82/dofp/internal/quality"
)

// Decision is the outcome of one scheduling opportunity.
type Decision struct {
	// Sequence is the input with the terminal resolved and repairs applied.
	Sequence quality.Sequence
	// FetchOrder lists positions in download priority. The terminal comes
	// first; entries whose level did not change need no transfer.
	FetchOrder []int
	Budget     float64
	Mode       BudgetMode
	// Gaps are the detected gaps in priority order.
	Gaps  []gaps.Gap
	Score float64
	// Terminal is the level chosen for the next segment.
	Terminal quality.Level
	// Infeasible is set when no candidate fit the budget and the terminal
	// fell back to level 0.
	Infeasible bool
	// Retransmissions are the buffered positions whose level was raised.
	Retransmissions []int
	// Evaluated counts the configurations scored.
	Evaluated int
}

// Decide runs the search for seq, whose last position must be undecided.
func Decide(seq quality.Sequence, state buffer.State, cfg Config) (*Decision, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}
	if err := seq.Validate(cfg.Bitrates.Levels()); err != nil {
		return nil, err
	}

	budget, mode := Budget(state, cfg.MaximizeWhenBufferHigh)
	ordered := gaps.Order(cfg.detector().Detect(seq, cfg.Bitrates.Levels()))

	s := &search{
		orig:   seq.Clone(),
		last:   len(seq) - 1,
		table:  cfg.Bitrates,
		state:  state,
		thr:    cfg.Throughput,
		budget: budget,
	}

	buffered := bufferedGaps(ordered, s.last)

	logging.Debug("decision started",
		"sequence", seq.String(),
		"budget", budget,
		"mode", string(mode),
		"gaps", len(ordered),
		"detector", cfg.detector().Name(),
	)

	if mode == BudgetSaving || len(buffered) == 0 {
		s.terminalOnly()
	} else {
		s.withRepairs(buffered, cfg.OneGapAtATime)
	}

	d := &Decision{
		Budget:    budget,
		Mode:      mode,
		Gaps:      ordered,
		Evaluated: s.evaluated,
	}
	if s.best == nil {
		d.Sequence = s.orig.With(s.last, 0)
		d.Infeasible = true
		d.Score = objective.Score(d.Sequence, s.table.Levels())
		d.FetchOrder = []int{s.last}
		logging.Debug("no candidate fits budget", "budget", budget, "throughput", cfg.Throughput)
	} else {
		d.Sequence = s.best
		d.Score = s.bestScore
		d.FetchOrder = fetchOrder(s.last, buffered, mode == BudgetSaving)
	}
	d.Terminal = d.Sequence[s.last]
	for p := 0; p < s.last; p++ {
		if d.Sequence[p] != s.orig[p] {
			d.Retransmissions = append(d.Retransmissions, p)
		}
	}

	logging.Debug("decision complete",
		"sequence", d.Sequence.String(),
		"terminal", int(d.Terminal),
		"score", d.Score,
		"retransmissions", len(d.Retransmissions),
		"evaluated", d.Evaluated,
		"infeasible", d.Infeasible,
	)
	return d, nil
}

// search holds the state of one decision. Candidate sequences are never
// modified after creation.
type search struct {
	orig   quality.Sequence
	last   int
	table  quality.BitrateTable
	state  buffer.State
	thr    float64
	budget float64

	best      quality.Sequence
	bestScore float64
	evaluated int
}

func (s *search) score(seq quality.Sequence) float64 {
	return objective.Score(seq, s.table.Levels())
}

// offer scores seq and keeps it if it beats the best so far.
func (s *search) offer(seq quality.Sequence) float64 {
	sc := s.score(seq)
	s.evaluated++
	if s.best == nil || sc > s.bestScore {
		s.best, s.bestScore = seq, sc
	}
	return sc
}

func (s *search) downloadTime(l quality.Level) float64 {
	return s.table.DownloadTime(l, s.state.SegmentDuration, s.thr)
}

// cost is the download time of every position of seq that differs from the
// original history, the terminal included.
func (s *search) cost(seq quality.Sequence) float64 {
	var total float64
	for p, l := range seq {
		if l != s.orig[p] {
			total += s.downloadTime(l)
		}
	}
	return total
}

// terminalOnly picks the best terminal level whose download time is strictly
// below the budget.
func (s *search) terminalOnly() {
	for q := quality.Level(1); q <= s.table.Top(); q++ {
		if s.downloadTime(q) < s.budget {
			s.offer(s.orig.With(s.last, q))
		}
	}
}

// withRepairs tries every terminal level that downloads within one segment
// duration and, for each, repairs the buffered gaps in priority order. A
// surplus budget smaller than a segment duration still caps the terminal.
func (s *search) withRepairs(buffered []gaps.Gap, oneGap bool) {
	limit := min(s.state.SegmentDuration, s.budget)
	for q := quality.Level(1); q <= s.table.Top(); q++ {
		if s.downloadTime(q) > limit {
			break
		}
		base := s.orig.With(s.last, q)
		s.offer(base)

		running := base
		for _, gap := range buffered {
			start := running
			if oneGap {
				start = base
			}
			result := s.repair(start, gap)
			if !oneGap {
				running = result
			}
		}
	}
}

// repair raises the members of gap one level at a time, last member first,
// and returns the best snapshot seen (start if nothing beat it). The first
// step whose charged time exceeds its segment's deadline abandons the gap.
func (s *search) repair(start quality.Sequence, gap gaps.Gap) quality.Sequence {
	work := start
	best, bestScore := start, s.score(start)

	for _, pos := range gap.Reversed() {
		deadline := s.state.Deadline(pos)
		for l := work[pos] + 1; l <= gap.Target; l++ {
			next := work.With(pos, l)
			if s.cost(next) > deadline {
				logging.Debug("gap abandoned",
					"gap", gap.String(),
					"position", pos,
					"level", int(l),
					"deadline", deadline,
				)
				return best
			}
			work = next
			if sc := s.offer(next); sc > bestScore {
				best, bestScore = next, sc
			}
		}
	}
	return best
}

// bufferedGaps drops the gap holding the terminal position.
func bufferedGaps(ordered []gaps.Gap, last int) []gaps.Gap {
	out := make([]gaps.Gap, 0, len(ordered))
	for _, g := range ordered {
		if g.Last() != last {
			out = append(out, g)
		}
	}
	return out
}

// fetchOrder puts the terminal first, then every buffered gap in priority
// order with its members reversed.
func fetchOrder(last int, buffered []gaps.Gap, terminalOnly bool) []int {
	order := []int{last}
	if terminalOnly {
		return order
	}
	for _, g := range buffered {
		order = append(order, g.Reversed()...)
	}
	return order
}
