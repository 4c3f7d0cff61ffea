package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/dofp/internal/version"
)

func newVersionCmd() *cobra.Command {
	var versionJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print the version, commit, and platform of dofp.",
		Run: func(cmd *cobra.Command, _ []string) {
			if versionJSON {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.JSON())
				return
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}

	cmd.Flags().BoolVar(&versionJSON, "json", false, "output version information as JSON")
	return cmd
}
