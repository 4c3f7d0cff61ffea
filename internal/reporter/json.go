package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"
)

// JSONReporter outputs NDJSON events, one object per line.
type JSONReporter struct {
	writer            io.Writer
	mu                sync.Mutex
	lastProgressStep  int
	lastProgressTime  time.Time
	progressThrottled bool
}

// NewJSONReporter creates a new JSON reporter that writes to stdout.
func NewJSONReporter() *JSONReporter {
	return NewJSONReporterWithWriter(os.Stdout)
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{
		writer:            w,
		lastProgressStep:  -1,
		progressThrottled: w == os.Stdout,
	}
}

func (r *JSONReporter) timestamp() int64 {
	return time.Now().Unix()
}

func (r *JSONReporter) write(v map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
}

// finite maps infinities and NaN to nil, which encoding/json rejects.
func finite(f float64) interface{} {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	return f
}

func (r *JSONReporter) ScenarioStarted(info ScenarioInfo) {
	r.mu.Lock()
	r.lastProgressStep = -1
	r.lastProgressTime = time.Time{}
	r.mu.Unlock()

	r.write(map[string]interface{}{
		"type":                      "scenario_started",
		"name":                      info.Name,
		"steps":                     info.Steps,
		"bitrates":                  info.Bitrates,
		"buffer_capacity":           info.BufferCapacity,
		"segment_duration":          info.SegmentDuration,
		"gap_strategy":              info.GapStrategy,
		"one_gap_at_a_time":         info.OneGapAtATime,
		"maximize_when_buffer_high": info.MaximizeWhenBufferHigh,
		"history":                   info.History,
		"timestamp":                 r.timestamp(),
	})
}

func (r *JSONReporter) DecisionComplete(summary DecisionSummary) {
	retrans := summary.Retransmissions
	if retrans == nil {
		retrans = []int{}
	}
	r.write(map[string]interface{}{
		"type":             "decision",
		"step":             summary.Step,
		"throughput":       finite(summary.Throughput),
		"occupancy":        summary.Occupancy,
		"input":            summary.Input,
		"output":           summary.Output,
		"terminal":         summary.Terminal,
		"terminal_bitrate": summary.TerminalBitrate,
		"budget":           finite(summary.Budget),
		"budget_mode":      summary.BudgetMode,
		"score":            finite(summary.Score),
		"gaps":             summary.Gaps,
		"retransmissions":  retrans,
		"fetch_order":      summary.FetchOrder,
		"infeasible":       summary.Infeasible,
		"evaluated":        summary.Evaluated,
		"timestamp":        r.timestamp(),
	})
}

func (r *JSONReporter) StepProgress(update StepProgress) {
	const minInterval = 5 * time.Second

	now := time.Now()

	r.mu.Lock()
	intervalElapsed := r.lastProgressTime.IsZero() || now.Sub(r.lastProgressTime) >= minInterval
	final := update.Step >= update.Total
	shouldEmit := update.Step > r.lastProgressStep && (!r.progressThrottled || intervalElapsed || final)

	if !shouldEmit {
		r.mu.Unlock()
		return
	}
	r.lastProgressStep = update.Step
	r.lastProgressTime = now
	r.mu.Unlock()

	r.write(map[string]interface{}{
		"type":      "step_progress",
		"step":      update.Step,
		"total":     update.Total,
		"percent":   update.Percent,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Warning(message string) {
	r.write(map[string]interface{}{
		"type":      "warning",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Error(err ReporterError) {
	r.write(map[string]interface{}{
		"type":       "error",
		"title":      err.Title,
		"message":    err.Message,
		"context":    err.Context,
		"suggestion": err.Suggestion,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) ScenarioComplete(summary ScenarioSummary) {
	r.write(map[string]interface{}{
		"type":                  "scenario_complete",
		"name":                  summary.Name,
		"steps":                 summary.Steps,
		"retransmissions":       summary.Retransmissions,
		"infeasible_steps":      summary.InfeasibleSteps,
		"mean_terminal_level":   summary.MeanTerminalLevel,
		"mean_terminal_bitrate": summary.MeanTerminalBitrate,
		"downward_switches":     summary.DownwardSwitches,
		"final_sequence":        summary.FinalSequence,
		"played":                summary.Played,
		"duration_seconds":      summary.Duration.Seconds(),
		"timestamp":             r.timestamp(),
	})
}

func (r *JSONReporter) Verbose(message string) {
	r.write(map[string]interface{}{
		"type":      "verbose",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) BatchStarted(info BatchStartInfo) {
	r.write(map[string]interface{}{
		"type":            "batch_started",
		"total_scenarios": info.TotalScenarios,
		"file_list":       info.FileList,
		"workers":         info.Workers,
		"timestamp":       r.timestamp(),
	})
}

func (r *JSONReporter) BatchComplete(summary BatchSummary) {
	r.write(map[string]interface{}{
		"type":                   "batch_complete",
		"successful_count":       summary.SuccessfulCount,
		"total_scenarios":        summary.TotalScenarios,
		"total_steps":            summary.TotalSteps,
		"retransmissions":        summary.Retransmissions,
		"infeasible_steps":       summary.InfeasibleSteps,
		"total_duration_seconds": summary.TotalDuration.Seconds(),
		"timestamp":              r.timestamp(),
	})
}
