// Package reporter provides progress reporting interfaces and implementations.
package reporter

import "time"

// ScenarioInfo describes a replay before its first step.
type ScenarioInfo struct {
	Name                   string
	Steps                  int
	Bitrates               []float64
	BufferCapacity         float64
	SegmentDuration        float64
	GapStrategy            string
	OneGapAtATime          bool
	MaximizeWhenBufferHigh bool
	History                string
}

// DecisionSummary describes one engine decision.
type DecisionSummary struct {
	Step            int
	Throughput      float64
	Occupancy       float64
	Input           string
	Output          string
	Terminal        int
	TerminalBitrate float64
	Budget          float64
	BudgetMode      string
	Score           float64
	Gaps            int
	Retransmissions []int
	FetchOrder      []int
	Infeasible      bool
	Evaluated       int
}

// StepProgress reports how far a replay has advanced.
type StepProgress struct {
	Step    int
	Total   int
	Percent float32
}

// ReporterError contains error information.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}

// ScenarioSummary contains replay completion information.
type ScenarioSummary struct {
	Name                string
	Steps               int
	Retransmissions     int
	InfeasibleSteps     int
	MeanTerminalLevel   float64
	MeanTerminalBitrate float64
	DownwardSwitches    int
	FinalSequence       string
	Played              string
	Duration            time.Duration
}

// BatchStartInfo contains batch start metadata.
type BatchStartInfo struct {
	TotalScenarios int
	FileList       []string
	Workers        int
}

// BatchSummary contains batch completion information.
type BatchSummary struct {
	SuccessfulCount int
	TotalScenarios  int
	TotalSteps      int
	Retransmissions int
	InfeasibleSteps int
	TotalDuration   time.Duration
	Results         []ScenarioResult
}

// ScenarioResult contains the per-scenario line of a batch summary.
type ScenarioResult struct {
	Name              string
	MeanTerminalLevel float64
	Failed            bool
}
