package commands

import (
	"github.com/spf13/cobra"

	"psr/internal/ui"
)

// ViewCommand opens the interactive ledger viewer
type ViewCommand struct {
	deps *Deps
}

// NewViewCommand creates a new ViewCommand
func NewViewCommand(deps *Deps) *ViewCommand {
	return &ViewCommand{deps: deps}
}

// Execute runs the command
func (vc *ViewCommand) Execute(cmd *cobra.Command, args []string) error {
	profile, err := vc.deps.profile()
	if err != nil {
		return err
	}
	results, err := vc.deps.Ledger.Results(vc.deps.Config.LedgerPath(profile), profile.Key)
	if err != nil {
		return err
	}
	return ui.NewLedgerViewer(profile).View(results)
}
