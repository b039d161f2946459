package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"psr/internal/config"
	"psr/internal/discovery"
	"psr/internal/domain"
	"psr/internal/execution"
	"psr/internal/pipeline"
	"psr/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	deps    *Deps
	scanner *discovery.Scanner
	filter  *discovery.Filter
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(deps *Deps, scanner *discovery.Scanner, filter *discovery.Filter) *RunCommand {
	return &RunCommand{deps: deps, scanner: scanner, filter: filter}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := rc.deps.Config
	profile, err := rc.deps.profile()
	if err != nil {
		return err
	}

	scenarios, err := rc.selectScenarios(profile, args)
	if err != nil {
		return err
	}
	if len(scenarios) == 0 {
		rc.deps.Console.Warnf("No scenarios to run")
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	p, closeRecorder := rc.deps.pipeline(ctx)
	defer closeRecorder()

	if len(scenarios) == 1 {
		return rc.runOne(ctx, p, profile, scenarios[0])
	}

	byID := make(map[int]config.Scenario, len(scenarios))
	ids := make([]int, 0, len(scenarios))
	for _, s := range scenarios {
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}

	// concurrent runs share the ledger, which serialises its writes
	pool := execution.NewWorkerPool(cfg.Flags.Parallel)
	pool.SetProgress(ui.NewProgressBar(len(ids), "Scenarios", rc.deps.ErrOut))
	job := func(ctx context.Context, id int) (domain.ScenarioResult, error) {
		rctx := pipeline.NewRunContext(cfg, profile, byID[id], rc.deps.Console)
		outcome, err := p.Run(ctx, rctx)
		return outcome.Result, err
	}
	outcomes, elapsed := pool.Execute(ctx, ids, job, cfg.Flags.FailFast)

	return rc.summarize(byID, outcomes, elapsed.Round(time.Millisecond).String())
}

func (rc *RunCommand) runOne(ctx context.Context, p *pipeline.Pipeline, profile config.ProductProfile, scenario config.Scenario) error {
	rctx := pipeline.NewRunContext(rc.deps.Config, profile, scenario, rc.deps.Console)

	outcome, err := p.Run(ctx, rctx)
	if err != nil {
		return err
	}

	rc.deps.Formatter.PrintRunSummary(outcome.Result)
	rc.deps.Console.Successf("Report: %s", outcome.Artifact.HTMLPath)
	if outcome.Result.OverallStatus != domain.OverallPass {
		return ErrScenarioFailed
	}
	return nil
}

func (rc *RunCommand) summarize(byID map[int]config.Scenario, outcomes []execution.Outcome, elapsed string) error {
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].ScenarioID < outcomes[j].ScenarioID })

	latest := make(map[int]domain.ScenarioResult, len(outcomes))
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			rc.deps.Console.Errorf("Scenario %d: %v", o.ScenarioID, o.Err)
			failed++
			continue
		}
		latest[o.ScenarioID] = o.Result
		if !o.Passed() {
			failed++
		}
	}

	ran := make([]config.Scenario, 0, len(outcomes))
	for _, o := range outcomes {
		ran = append(ran, byID[o.ScenarioID])
	}
	if err := rc.deps.Formatter.PrintScenarioList(ran, latest); err != nil {
		return err
	}

	rc.deps.Console.Infof("%d scenario(s) in %s, %d not passed", len(outcomes), elapsed, failed)
	if failed > 0 {
		return ErrScenarioFailed
	}
	return nil
}

// selectScenarios resolves the ids on the command line, or every known
// scenario with --all, against the configured and discovered scenarios
func (rc *RunCommand) selectScenarios(profile config.ProductProfile, args []string) ([]config.Scenario, error) {
	flags := rc.deps.Config.Flags
	known := catalog(rc.deps, rc.scanner, profile)

	if flags.All {
		if len(args) > 0 {
			return nil, fmt.Errorf("--all does not take scenario ids")
		}
		return rc.filter.FilterByName(known, flags.Filter), nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("requires a scenario id or --all")
	}

	byID := make(map[int]config.Scenario, len(known))
	for _, s := range known {
		byID[s.ID] = s
	}
	selected := make([]config.Scenario, 0, len(args))
	seen := make(map[int]bool, len(args))
	for _, arg := range args {
		id, err := parseScenarioID(arg)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		s, ok := byID[id]
		if !ok {
			rc.deps.Console.Warnf("Scenario %d is not configured for %s, running its spec file anyway", id, profile.Key)
			s, _ = profile.Scenario(id)
		}
		selected = append(selected, s)
	}
	return selected, nil
}
