package commands

import (
	"github.com/spf13/cobra"

	"psr/internal/cli"
	"psr/internal/config"
	"psr/internal/discovery"
)

// Commands holds all CLI commands
type Commands struct {
	Run     *RunCommand
	Report  *ReportCommand
	History *HistoryCommand
	List    *ListCommand
	View    *ViewCommand
	Serve   *ServeCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(deps *Deps) *Commands {
	scanner := discovery.NewScanner([]string{"node_modules"})
	filter := discovery.NewFilter()

	return &Commands{
		Run:     NewRunCommand(deps, scanner, filter),
		Report:  NewReportCommand(deps),
		History: NewHistoryCommand(deps),
		List:    NewListCommand(deps, scanner, filter),
		View:    NewViewCommand(deps),
		Serve:   NewServeCommand(deps),
	}
}

// Register registers all commands with cobra. The configuration is loaded
// once the flags are parsed and replaces cfg in place, so every command
// sees the same values.
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	rootCmd.PersistentFlags().StringVarP(&flags.Product, "product", "P", "", "Product key from the profiles file")
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigFile, "config", "c", "", "Path to the product profiles file (default psr.yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.ProjectPath, "project-path", "", "Project root containing .env and the profiles file")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flags.ToConfigFlags())
		if err != nil {
			return err
		}
		*cfg = *loaded
		return nil
	}

	// Run command
	runCmd := &cobra.Command{
		Use:   "run [scenarioId...]",
		Short: "Run scenarios and regenerate their reports",
		Long:  "Execute a scenario through the Playwright runner, reconcile its step results, store them in the product ledger and render the HTML reports",
		RunE:  c.Run.Execute,
	}
	runCmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Stream the runner output")
	runCmd.Flags().BoolVar(&flags.ReportOnly, "report-only", false, "Skip execution and reconcile the existing JSON report")
	runCmd.Flags().BoolVarP(&flags.All, "all", "a", false, "Run every configured or discovered scenario")
	runCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "With --all, only run scenarios whose title or file matches (supports wildcards)")
	runCmd.Flags().IntVarP(&flags.Parallel, "parallel", "p", 1, "Number of scenarios to run at once")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop starting scenarios after the first one that does not pass")
	rootCmd.AddCommand(runCmd)

	// Report command
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Re-render all reports from the ledger",
		Long:  "Render the report of every scenario recorded in the ledger and rebuild the product dashboard",
		Args:  cobra.NoArgs,
		RunE:  c.Report.Execute,
	}
	rootCmd.AddCommand(reportCmd)

	// History command
	historyCmd := &cobra.Command{
		Use:   "history <scenarioId>",
		Short: "List previous reports of a scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  c.History.Execute,
	}
	rootCmd.AddCommand(historyCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List scenarios with their latest status",
		Long:  "List configured and discovered scenarios of a product with the status of their last run",
		Args:  cobra.NoArgs,
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter scenarios by title or file name (supports wildcards)")
	rootCmd.AddCommand(listCmd)

	// View command
	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "Browse the ledger interactively",
		Args:  cobra.NoArgs,
		RunE:  c.View.Execute,
	}
	rootCmd.AddCommand(viewCmd)

	// Serve command
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reports over HTTP",
		Args:  cobra.NoArgs,
		RunE:  c.Serve.Execute,
	}
	serveCmd.Flags().StringVar(&flags.Addr, "addr", "", "Listen address (default "+config.DefaultServeAddr+")")
	rootCmd.AddCommand(serveCmd)
}
