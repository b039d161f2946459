package commands

import (
	"github.com/spf13/cobra"

	"psr/internal/report"
)

// HistoryCommand lists the report snapshots of a scenario
type HistoryCommand struct {
	deps    *Deps
	history report.History
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(deps *Deps) *HistoryCommand {
	return &HistoryCommand{deps: deps}
}

// Execute runs the command
func (hc *HistoryCommand) Execute(cmd *cobra.Command, args []string) error {
	id, err := parseScenarioID(args[0])
	if err != nil {
		return err
	}
	profile, err := hc.deps.profile()
	if err != nil {
		return err
	}

	entries, err := hc.history.List(hc.deps.Config.ScenarioReportDir(profile, id))
	if err != nil {
		return err
	}
	hc.deps.Formatter.PrintHistory(id, entries)
	return nil
}
