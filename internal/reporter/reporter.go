package reporter

// Reporter defines the interface for progress reporting.
type Reporter interface {
	ScenarioStarted(info ScenarioInfo)
	DecisionComplete(summary DecisionSummary)
	StepProgress(update StepProgress)
	Warning(message string)
	Error(err ReporterError)
	ScenarioComplete(summary ScenarioSummary)
	Verbose(message string)
	BatchStarted(info BatchStartInfo)
	BatchComplete(summary BatchSummary)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) ScenarioStarted(ScenarioInfo)     {}
func (NullReporter) DecisionComplete(DecisionSummary) {}
func (NullReporter) StepProgress(StepProgress)        {}
func (NullReporter) Warning(string)                   {}
func (NullReporter) Error(ReporterError)              {}
func (NullReporter) ScenarioComplete(ScenarioSummary) {}
func (NullReporter) Verbose(string)                   {}
func (NullReporter) BatchStarted(BatchStartInfo)      {}
func (NullReporter) BatchComplete(BatchSummary)       {}
