package reporter

import "sync"

// SyncReporter serializes calls to a reporter shared by goroutines.
type SyncReporter struct {
	mu    sync.Mutex
	inner Reporter
}

// NewSyncReporter wraps r. A nil r yields a no-op reporter.
func NewSyncReporter(r Reporter) *SyncReporter {
	if r == nil {
		r = NullReporter{}
	}
	return &SyncReporter{inner: r}
}

func (s *SyncReporter) ScenarioStarted(info ScenarioInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.ScenarioStarted(info)
}

func (s *SyncReporter) DecisionComplete(summary DecisionSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.DecisionComplete(summary)
}

func (s *SyncReporter) StepProgress(update StepProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.StepProgress(update)
}

func (s *SyncReporter) Warning(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.Warning(message)
}

func (s *SyncReporter) Error(err ReporterError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.Error(err)
}

func (s *SyncReporter) ScenarioComplete(summary ScenarioSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.ScenarioComplete(summary)
}

func (s *SyncReporter) Verbose(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.Verbose(message)
}

func (s *SyncReporter) BatchStarted(info BatchStartInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.BatchStarted(info)
}

func (s *SyncReporter) BatchComplete(summary BatchSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.BatchComplete(summary)
}
