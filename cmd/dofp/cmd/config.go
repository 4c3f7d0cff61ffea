package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/five82/dofp/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
		Long:  `Commands for managing dofp configuration.`,
	}

	var defaults bool
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump the effective configuration",
		Long: `Dump the configuration in YAML format after the config file and
environment have been applied. With --defaults only the built-in values
are shown. Redirect the output to create a configuration template:

  dofp config dump --defaults > config.yaml

Environment variables use the DOFP_ prefix and underscores for nesting.
Example: buffer.capacity -> DOFP_BUFFER_CAPACITY`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if defaults {
				cfg = config.NewConfig()
			}
			return dumpConfig(cmd, cfg)
		},
	}
	dumpCmd.Flags().BoolVar(&defaults, "defaults", false, "dump the built-in defaults only")

	configCmd.AddCommand(dumpCmd)
	return configCmd
}

func dumpConfig(cmd *cobra.Command, cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(w, "# dofp configuration")
	_, _ = fmt.Fprintln(w, "#")
	_, _ = fmt.Fprintln(w, "# Bitrates are in kbps, lowest level first. Buffer values are seconds,")
	_, _ = fmt.Fprintln(w, "# thresholds are fractions of the capacity.")
	_, _ = fmt.Fprintln(w, "#")
	_, _ = fmt.Fprintln(w, "# Environment variable overrides:")
	_, _ = fmt.Fprintln(w, "#   DOFP_BUFFER_CAPACITY, DOFP_BUFFER_SEGMENT_DURATION")
	_, _ = fmt.Fprintln(w, "#   DOFP_POLICY_PRESET, DOFP_POLICY_GAP_STRATEGY")
	_, _ = fmt.Fprintln(w, "#   DOFP_LOGGING_LEVEL, DOFP_LOGGING_FORMAT")
	_, _ = fmt.Fprintln(w)
	_, err = w.Write(data)
	return err
}
