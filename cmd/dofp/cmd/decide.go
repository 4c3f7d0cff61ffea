package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/dofp/internal/engine"
	"github.com/five82/dofp/internal/quality"
	"github.com/five82/dofp/internal/replay"
)

type decideOptions struct {
	sequence   string
	throughput float64
	occupancy  float64
	remaining  float64
}

func newDecideCmd(a *app) *cobra.Command {
	opts := &decideOptions{}

	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Decide the next segment for one scheduling opportunity",
		Long: `Decide the quality of the next segment and the buffered segments to fetch
again, given the current window, buffer and throughput.

The window lists one level per segment, oldest first, ending with "?" for
the segment being decided:

  dofp decide --sequence 6,5,5,6,6,? --throughput 3634 --occupancy 16.743 --remaining 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDecide(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.sequence, "sequence", "s", "", "quality window, e.g. 6,5,5,6,6,?")
	cmd.Flags().Float64VarP(&opts.throughput, "throughput", "t", 0, "estimated throughput in kbps")
	cmd.Flags().Float64VarP(&opts.occupancy, "occupancy", "b", 0, "buffered playback time in seconds")
	cmd.Flags().Float64VarP(&opts.remaining, "remaining", "r", -1, "playback time left on the current segment (default segment duration)")
	_ = cmd.MarkFlagRequired("sequence")
	_ = cmd.MarkFlagRequired("throughput")
	_ = cmd.MarkFlagRequired("occupancy")
	addPolicyFlags(cmd)

	return cmd
}

func (a *app) runDecide(cmd *cobra.Command, opts *decideOptions) error {
	cfg := *a.cfg
	if err := applyPolicyFlags(cmd, &cfg); err != nil {
		return err
	}

	seq, err := quality.ParseSequence(opts.sequence)
	if err != nil {
		return err
	}

	remaining := opts.remaining
	if remaining < 0 {
		remaining = cfg.Buffer.SegmentDuration
	}

	state, err := cfg.BufferState(opts.occupancy, remaining)
	if err != nil {
		return err
	}
	ecfg, err := cfg.EngineConfig(opts.throughput)
	if err != nil {
		return err
	}

	d, err := engine.Decide(seq, state, ecfg)
	if err != nil {
		return fmt.Errorf("deciding %s: %w", seq, err)
	}

	rep := a.reporter(cmd.OutOrStdout())
	rep.DecisionComplete(replay.Summarize(0, seq, d, ecfg.Bitrates, opts.throughput, opts.occupancy))
	for _, g := range d.Gaps {
		rep.Verbose(fmt.Sprintf("gap %s", g))
	}
	return nil
}
