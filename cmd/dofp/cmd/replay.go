package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/dofp/internal/config"
	"github.com/five82/dofp/internal/discovery"
	"github.com/five82/dofp/internal/logging"
	"github.com/five82/dofp/internal/metrics"
	"github.com/five82/dofp/internal/replay"
	"github.com/five82/dofp/internal/reporter"
	"github.com/five82/dofp/internal/worker"
)

func newReplayCmd(a *app) *cobra.Command {
	var (
		metricsFile string
		workers     int
	)

	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml|dir>...",
		Short: "Replay recorded scenarios step by step",
		Long: `Replay drives the engine over YAML scenarios. After every decision the
played segment leaves the window and a new undecided segment is appended.

Directories are expanded to the .yaml and .yml files they contain. Several
scenarios are replayed concurrently and summarized as a batch.

Example scenario:

  name: congested-evening
  history: "6,5,5,6,6,?"
  policy:
    preset: conservative
  steps:
    - throughput: 3634
      occupancy: 16.743
      remaining: 1
    - throughput: 900
      occupancy: 12`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := discovery.Resolve(args)
			if err != nil {
				return err
			}
			return a.runReplay(cmd, files, metricsFile, workers)
		},
	}

	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file")
	cmd.Flags().IntVarP(&workers, "workers", "w", worker.DefaultWorkers(), "scenarios replayed at once")
	addPolicyFlags(cmd)

	return cmd
}

func (a *app) runReplay(cmd *cobra.Command, files []string, metricsFile string, workers int) error {
	cfg := *a.cfg
	if err := applyPolicyFlags(cmd, &cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := a.reporter(cmd.OutOrStdout())
	var (
		m        *metrics.Metrics
		observer reporter.Reporter
	)
	if metricsFile != "" {
		m = metrics.New()
		observer = metrics.NewReporter(m)
	}

	var runErr error
	if len(files) == 1 {
		runErr = replayOne(ctx, files[0], &cfg, reporter.NewCompositeReporter(out, observer))
	} else {
		_, runErr = replay.RunBatch(ctx, files, &cfg, replay.BatchOptions{
			Workers:  workers,
			Observer: observer,
		}, out)
	}

	// Metrics are written even for a partial batch.
	if m != nil {
		if err := m.WriteTextfile(metricsFile); err != nil {
			return err
		}
		logging.Info("metrics written", "path", metricsFile)
	}
	return runErr
}

func replayOne(ctx context.Context, path string, cfg *config.Config, rep reporter.Reporter) error {
	sc, err := replay.LoadScenario(path)
	if err != nil {
		return err
	}
	if _, err := replay.Run(ctx, sc, cfg, rep); err != nil {
		return fmt.Errorf("replaying %s: %w", sc.Name, err)
	}
	return nil
}
