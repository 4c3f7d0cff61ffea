// Package cmd implements the CLI commands for dofp.
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/five82/dofp/internal/config"
	"github.com/five82/dofp/internal/logging"
	"github.com/five82/dofp/internal/quality"
	"github.com/five82/dofp/internal/reporter"
	"github.com/five82/dofp/internal/version"
)

// app holds the state shared by all commands of one invocation.
type app struct {
	cfgFile    string
	envFile    string
	jsonOutput bool
	verbose    bool

	cfg  *config.Config
	logs *logging.File
}

// Execute runs the root command.
func Execute() error {
	a := &app{}
	if err := a.execute(newRootCmd(a)); err != nil {
		return fmt.Errorf("executing root command: %w", err)
	}
	return nil
}

// execute runs root and closes the log file afterwards. Cobra skips the
// post-run hook when a command fails.
func (a *app) execute(root *cobra.Command) (err error) {
	defer func() {
		if cerr := a.close(); err == nil {
			err = cerr
		}
	}()
	return root.Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "dofp",
		Short:   "Segment quality decisions for adaptive streaming",
		Version: version.Short(),
		Long: `dofp picks the quality of the next segment of an adaptive stream and the
buffered segments worth fetching again at a higher quality.

Decisions trade average quality against quality switches, within the
download time the buffer can spare.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Root().PersistentFlags())
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.close()
		},
	}

	// Flags are not bound to viper. They override the config and environment
	// only when set explicitly.
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./config.yaml or $HOME/.config/dofp/config.yaml)")
	flags.StringVar(&a.envFile, "env-file", "", "load DOFP_* variables from this file (default .env when present)")
	flags.String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", config.DefaultLogFormat, "log format (text, json)")
	flags.String("log-file", "", "also write logs to this file")
	flags.BoolVar(&a.jsonOutput, "json", false, "emit NDJSON events instead of terminal output")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "print every decision and detected gap")

	rootCmd.AddCommand(
		newDecideCmd(a),
		newReplayCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// init loads the environment file, the configuration and the logger.
//
// Priority order (highest to lowest):
//  1. CLI flags (--log-level, --log-format, --log-file), only if set
//  2. Environment variables (DOFP_LOGGING_LEVEL, ...)
//  3. Config file values
//  4. Built-in defaults
func (a *app) init(flags *pflag.FlagSet) error {
	var envFiles []string
	if a.envFile != "" {
		envFiles = append(envFiles, a.envFile)
	}
	if err := config.LoadEnv(envFiles...); err != nil {
		return err
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format, _ = flags.GetString("log-format")
	}
	if flags.Changed("log-file") {
		cfg.Logging.File, _ = flags.GetString("log-file")
	}
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	if cfg.Logging.Level == "warning" {
		cfg.Logging.Level = "warn"
	}

	logs, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}

	a.cfg = cfg
	a.logs = logs
	logging.Debug("configuration loaded",
		"config_file", a.cfgFile,
		"levels", len(cfg.Bitrates),
		"gap_strategy", cfg.Policy.GapStrategy,
	)
	return nil
}

func (a *app) close() error {
	if a.logs == nil {
		return nil
	}
	err := a.logs.Close()
	a.logs = nil
	return err
}

// reporter returns the output reporter for the command's stdout.
func (a *app) reporter(w io.Writer) reporter.Reporter {
	if a.jsonOutput {
		return reporter.NewJSONReporterWithWriter(w)
	}
	return reporter.NewTerminalReporterWithWriter(w, a.verbose)
}

// addPolicyFlags registers per-command policy overrides.
func addPolicyFlags(cmd *cobra.Command) {
	cmd.Flags().String("preset", "", "policy preset (balanced, conservative, aggressive)")
	cmd.Flags().String("bitrates", "", "bitrate ladder in kbps, lowest first, e.g. 107,240,346")
	cmd.Flags().String("gap-strategy", "", "gap detector (strict, extended)")
	cmd.Flags().Bool("one-gap", config.DefaultOneGapAtATime, "evaluate each gap against the original history")
	cmd.Flags().Bool("maximize", config.DefaultMaximizeWhenBufferHigh, "spend the buffer surplus when above the high threshold")
}

// applyPolicyFlags copies explicitly set policy flags into cfg. The preset
// is applied first so the other flags win over it.
func applyPolicyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("preset") {
		name, _ := flags.GetString("preset")
		p, err := config.ParsePreset(name)
		if err != nil {
			return err
		}
		cfg.ApplyPreset(p)
	}
	if flags.Changed("bitrates") {
		list, _ := flags.GetString("bitrates")
		rates, err := quality.ParseBitrates(list)
		if err != nil {
			return err
		}
		cfg.Bitrates = rates
	}
	if flags.Changed("gap-strategy") {
		cfg.Policy.GapStrategy, _ = flags.GetString("gap-strategy")
	}
	if flags.Changed("one-gap") {
		cfg.Policy.OneGapAtATime, _ = flags.GetBool("one-gap")
	}
	if flags.Changed("maximize") {
		cfg.Policy.MaximizeWhenBufferHigh, _ = flags.GetBool("maximize")
	}
	return cfg.Validate()
}
