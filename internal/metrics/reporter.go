package metrics

import "github.com/five82/dofp/internal/reporter"

// Reporter records decision events into Metrics.
type Reporter struct {
	reporter.NullReporter
	m *Metrics
}

// NewReporter returns a reporter feeding m.
func NewReporter(m *Metrics) *Reporter {
	return &Reporter{m: m}
}

func (r *Reporter) DecisionComplete(summary reporter.DecisionSummary) {
	r.m.IncDecisions(summary.BudgetMode)
	r.m.AddRetransmissions(len(summary.Retransmissions))
	r.m.AddEvaluated(summary.Evaluated)
	r.m.ObserveBudget(summary.Budget)
	r.m.SetTerminal(summary.Terminal, summary.TerminalBitrate)
	r.m.SetScore(summary.Score)
	if summary.Infeasible {
		r.m.IncInfeasible()
	}
}

func (r *Reporter) Error(reporter.ReporterError) {
	r.m.IncErrors()
}
