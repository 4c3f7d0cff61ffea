package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/dofp/internal/config"
	dofperrors "github.com/five82/dofp/internal/errors"
	"github.com/five82/dofp/internal/logging"
	"github.com/five82/dofp/internal/reporter"
	"github.com/five82/dofp/internal/worker"
)

// BatchOptions configures RunBatch.
type BatchOptions struct {
	// Workers bounds the scenarios replayed at once. Zero uses
	// worker.DefaultWorkers.
	Workers int
	// Observer receives the per-step events of every scenario. Calls are
	// serialized.
	Observer reporter.Reporter
}

// BatchResult holds one entry per input file, in input order.
type BatchResult struct {
	Files   []string
	Results []*Result
	Errors  []error
	Summary reporter.BatchSummary
}

// RunBatch replays the scenario files concurrently. rep receives the batch
// events and one ScenarioComplete or Error per file, in input order, once
// every replay has finished. The returned error is non-nil when any
// scenario failed; the result is still returned.
func RunBatch(ctx context.Context, paths []string, base *config.Config, opts BatchOptions, rep reporter.Reporter) (*BatchResult, error) {
	if rep == nil {
		rep = reporter.NullReporter{}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = worker.DefaultWorkers()
	}
	workers = max(min(workers, len(paths)), 1)

	rep.BatchStarted(reporter.BatchStartInfo{
		TotalScenarios: len(paths),
		FileList:       paths,
		Workers:        workers,
	})

	start := time.Now()
	observer := reporter.NewSyncReporter(opts.Observer)
	results, errs := worker.Run(ctx, len(paths), workers, func(ctx context.Context, i int) (*Result, error) {
		sc, err := LoadScenario(paths[i])
		if err != nil {
			return nil, err
		}
		logging.Debug("batch replay started", "scenario", sc.Name, "file", paths[i])
		return Run(ctx, sc, base, observer)
	})

	batch := &BatchResult{Files: paths, Results: results, Errors: errs}
	progress := worker.Progress{Total: len(paths)}
	s := &batch.Summary
	s.TotalScenarios = len(paths)

	for i, path := range paths {
		if err := errs[i]; err != nil {
			progress.Failed++
			logging.Error("scenario failed", "file", path, "error", err)
			s.Results = append(s.Results, reporter.ScenarioResult{Name: scenarioName(path), Failed: true})
			rep.Error(reporter.ReporterError{
				Title:      "Replay Error",
				Message:    err.Error(),
				Context:    fmt.Sprintf("File: %s", path),
				Suggestion: "Check the scenario against 'dofp config dump' and rerun it alone",
			})
			continue
		}

		progress.Complete++
		sum := results[i].Summary
		s.SuccessfulCount++
		s.TotalSteps += sum.Steps
		s.Retransmissions += sum.Retransmissions
		s.InfeasibleSteps += sum.InfeasibleSteps
		s.Results = append(s.Results, reporter.ScenarioResult{Name: sum.Name, MeanTerminalLevel: sum.MeanTerminalLevel})
		rep.ScenarioComplete(sum)
	}
	s.TotalDuration = time.Since(start)

	rep.BatchComplete(*s)
	logging.Debug("batch replay complete", "succeeded", progress.Complete, "failed", progress.Failed,
		"percent", progress.Percent())

	if ctx.Err() != nil {
		return batch, dofperrors.NewCancelledError()
	}
	if progress.Failed > 0 {
		return batch, fmt.Errorf("%d of %d scenarios failed", progress.Failed, progress.Total)
	}
	return batch, nil
}
