package commands

import (
	"github.com/spf13/cobra"

	"psr/internal/cli"
)

// NewRootCommand builds the psr command tree around deps
func NewRootCommand(deps *Deps, version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "psr",
		Short:         "Playwright scenario reports",
		Long:          `Run recorded Playwright scenarios, reconcile their step results into a per-product ledger and render HTML reports with history.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(deps.Out)
	rootCmd.SetErr(deps.ErrOut)

	var flags cli.Flags
	NewCommands(deps).Register(rootCmd, &flags, deps.Config)
	return rootCmd
}
