package commands

import (
	"github.com/spf13/cobra"

	"psr/internal/domain"
	"psr/internal/pipeline"
	"psr/internal/ui"
)

// ReportCommand re-renders every recorded scenario and the dashboard
type ReportCommand struct {
	deps *Deps
}

// NewReportCommand creates a new ReportCommand
func NewReportCommand(deps *Deps) *ReportCommand {
	return &ReportCommand{deps: deps}
}

// Execute runs the command
func (rc *ReportCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := rc.deps.Config
	profile, err := rc.deps.profile()
	if err != nil {
		return err
	}

	results, err := rc.deps.Ledger.Results(cfg.LedgerPath(profile), profile.Key)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		rc.deps.Console.Warnf("No scenario results recorded for %s", profile.Name)
		return nil
	}

	p, closeRecorder := rc.deps.pipeline(cmd.Context())
	defer closeRecorder()

	bar := ui.NewProgressBar(len(results), "Reports", rc.deps.ErrOut)
	passed, failed := 0, 0
	for _, result := range results {
		scenario, _ := profile.Scenario(result.ScenarioID)
		if result.Title != "" {
			scenario.Title = result.Title
		}
		rctx := pipeline.NewRunContext(cfg, profile, scenario, rc.deps.Console)
		if err := p.Rerender(rctx, result); err != nil {
			bar.Finish()
			return err
		}
		if result.OverallStatus == domain.OverallPass {
			passed++
		} else {
			failed++
		}
		bar.Update(passed, failed)
	}
	bar.Finish()

	rc.deps.Console.Successf("Rendered %d report(s) into %s", len(results), cfg.ReportsRoot(profile))
	return nil
}
