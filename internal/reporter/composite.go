package reporter

// CompositeReporter fans out events to multiple reporters.
type CompositeReporter struct {
	reporters []Reporter
}

// NewCompositeReporter creates a composite reporter. Nil entries are skipped.
func NewCompositeReporter(reporters ...Reporter) *CompositeReporter {
	c := &CompositeReporter{}
	for _, r := range reporters {
		if r != nil {
			c.reporters = append(c.reporters, r)
		}
	}
	return c
}

func (c *CompositeReporter) ScenarioStarted(info ScenarioInfo) {
	for _, r := range c.reporters {
		r.ScenarioStarted(info)
	}
}

func (c *CompositeReporter) DecisionComplete(summary DecisionSummary) {
	for _, r := range c.reporters {
		r.DecisionComplete(summary)
	}
}

func (c *CompositeReporter) StepProgress(update StepProgress) {
	for _, r := range c.reporters {
		r.StepProgress(update)
	}
}

func (c *CompositeReporter) Warning(message string) {
	for _, r := range c.reporters {
		r.Warning(message)
	}
}

func (c *CompositeReporter) Error(err ReporterError) {
	for _, r := range c.reporters {
		r.Error(err)
	}
}

func (c *CompositeReporter) ScenarioComplete(summary ScenarioSummary) {
	for _, r := range c.reporters {
		r.ScenarioComplete(summary)
	}
}

func (c *CompositeReporter) Verbose(message string) {
	for _, r := range c.reporters {
		r.Verbose(message)
	}
}

func (c *CompositeReporter) BatchStarted(info BatchStartInfo) {
	for _, r := range c.reporters {
		r.BatchStarted(info)
	}
}

func (c *CompositeReporter) BatchComplete(summary BatchSummary) {
	for _, r := range c.reporters {
		r.BatchComplete(summary)
	}
}
