package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/dofp/internal/config"
	"github.com/five82/dofp/internal/engine"
	dofperrors "github.com/five82/dofp/internal/errors"
	"github.com/five82/dofp/internal/logging"
	"github.com/five82/dofp/internal/quality"
	"github.com/five82/dofp/internal/reporter"
)

// Result is the outcome of a replay.
type Result struct {
	Decisions []*engine.Decision
	// Played holds the levels that left the window, oldest first.
	Played quality.Sequence
	// Final is the window after the last shift.
	Final   quality.Sequence
	Summary reporter.ScenarioSummary
}

// Shift drops the played head of a decided window and appends an undecided
// terminal, keeping the window length.
func Shift(seq quality.Sequence) quality.Sequence {
	return append(seq[1:].Clone(), quality.Undecided)
}

// Run replays sc on top of base. Cancellation is checked between steps.
func Run(ctx context.Context, sc *Scenario, base *config.Config, rep reporter.Reporter) (*Result, error) {
	if rep == nil {
		rep = reporter.NullReporter{}
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	cfg, err := sc.Apply(base)
	if err != nil {
		return nil, err
	}
	window, err := sc.Window()
	if err != nil {
		return nil, err
	}
	table, err := cfg.BitrateTable()
	if err != nil {
		return nil, err
	}

	rep.ScenarioStarted(reporter.ScenarioInfo{
		Name:                   sc.Name,
		Steps:                  len(sc.Steps),
		Bitrates:               table.Bitrates(),
		BufferCapacity:         cfg.Buffer.Capacity,
		SegmentDuration:        cfg.Buffer.SegmentDuration,
		GapStrategy:            cfg.Policy.GapStrategy,
		OneGapAtATime:          cfg.Policy.OneGapAtATime,
		MaximizeWhenBufferHigh: cfg.Policy.MaximizeWhenBufferHigh,
		History:                window.String(),
	})

	log := logging.Global().WithPrefix("replay")
	start := time.Now()
	res := &Result{}

	for i, st := range sc.Steps {
		if ctx.Err() != nil {
			rep.Warning(fmt.Sprintf("Replay cancelled: %v", ctx.Err()))
			logging.Warn("replay cancelled", "scenario", sc.Name, "step", i+1)
			return nil, dofperrors.NewCancelledError()
		}

		step := i + 1
		remaining := cfg.Buffer.SegmentDuration
		if st.Remaining != nil {
			remaining = *st.Remaining
		}

		state, err := cfg.BufferState(st.Occupancy, remaining)
		if err != nil {
			return nil, err
		}
		ecfg, err := cfg.EngineConfig(st.Throughput)
		if err != nil {
			return nil, err
		}

		d, err := engine.Decide(window, state, ecfg)
		if err != nil {
			rep.Error(reporter.ReporterError{
				Title:      "Decision Error",
				Message:    err.Error(),
				Context:    fmt.Sprintf("Step %d of %s, window %s", step, sc.Name, window),
				Suggestion: "Check the scenario step values against the buffer settings",
			})
			return nil, fmt.Errorf("step %d: %w", step, err)
		}

		rep.DecisionComplete(Summarize(step, window, d, table, st.Throughput, st.Occupancy))
		for _, g := range d.Gaps {
			rep.Verbose(fmt.Sprintf("step %d gap %s", step, g))
		}
		log.Debug("step", "scenario", sc.Name, "step", step, "window", window.String(), "terminal", int(d.Terminal))

		res.Decisions = append(res.Decisions, d)
		res.Played = append(res.Played, d.Sequence[0])
		window = Shift(d.Sequence)

		rep.StepProgress(reporter.StepProgress{
			Step:    step,
			Total:   len(sc.Steps),
			Percent: float32(step) / float32(len(sc.Steps)) * 100,
		})
	}

	res.Final = window
	res.Summary = summarize(sc.Name, res, table)
	res.Summary.Duration = time.Since(start)

	rep.ScenarioComplete(res.Summary)
	return res, nil
}

func summarize(name string, res *Result, table quality.BitrateTable) reporter.ScenarioSummary {
	s := reporter.ScenarioSummary{
		Name:          name,
		Steps:         len(res.Decisions),
		FinalSequence: res.Final.String(),
		Played:        res.Played.String(),
	}

	var levelSum, bitrateSum float64
	for i, d := range res.Decisions {
		s.Retransmissions += len(d.Retransmissions)
		if d.Infeasible {
			s.InfeasibleSteps++
		}
		levelSum += float64(d.Terminal)
		bitrateSum += table.Bitrate(d.Terminal)
		if i > 0 && d.Terminal < res.Decisions[i-1].Terminal {
			s.DownwardSwitches++
		}
	}
	if n := len(res.Decisions); n > 0 {
		s.MeanTerminalLevel = levelSum / float64(n)
		s.MeanTerminalBitrate = bitrateSum / float64(n)
	}
	return s
}

// Summarize converts a decision into its reporter form.
func Summarize(step int, input quality.Sequence, d *engine.Decision, table quality.BitrateTable, throughput, occupancy float64) reporter.DecisionSummary {
	return reporter.DecisionSummary{
		Step:            step,
		Throughput:      throughput,
		Occupancy:       occupancy,
		Input:           input.String(),
		Output:          d.Sequence.String(),
		Terminal:        int(d.Terminal),
		TerminalBitrate: table.Bitrate(d.Terminal),
		Budget:          d.Budget,
		BudgetMode:      string(d.Mode),
		Score:           d.Score,
		Gaps:            len(d.Gaps),
		Retransmissions: d.Retransmissions,
		FetchOrder:      d.FetchOrder,
		Infeasible:      d.Infeasible,
		Evaluated:       d.Evaluated,
	}
}
