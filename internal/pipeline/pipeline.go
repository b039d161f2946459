package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"psr/internal/domain"
	"psr/internal/execution"
	"psr/internal/inference"
	"psr/internal/parser"
	"psr/internal/report"
	"psr/internal/storage"
)

// Outcome is what a finished run left behind
type Outcome struct {
	Result        domain.ScenarioResult
	Artifact      domain.ReportArtifact
	DashboardPath string
}

// Pipeline runs a scenario and reconciles, persists and reports its result.
// It holds no per-run state and can serve concurrent runs.
type Pipeline struct {
	executor execution.Executor
	parser   parser.Parser
	ledger   storage.Store
	recorder storage.Recorder
	writer   *report.Writer
}

// New creates a new Pipeline. A nil recorder records nothing.
func New(executor execution.Executor, p parser.Parser, ledger storage.Store, recorder storage.Recorder, writer *report.Writer) *Pipeline {
	if recorder == nil {
		recorder = storage.NopRecorder{}
	}
	return &Pipeline{
		executor: executor,
		parser:   p,
		ledger:   ledger,
		recorder: recorder,
		writer:   writer,
	}
}

// Run executes the scenario (unless report-only), builds its result and
// writes the ledger, history database, reports and dashboard in that order.
// A later stage failing does not roll back an earlier one.
func (p *Pipeline) Run(ctx context.Context, rc *RunContext) (Outcome, error) {
	log := rc.log()
	testFile := rc.TestFile()

	var run domain.RunOutput
	if rc.ReportOnly {
		now := rc.now()
		run = domain.RunOutput{StartedAt: now, FinishedAt: now}
		log.Infof("Reconciling existing report for scenario %d", rc.Scenario.ID)
	} else {
		if _, err := os.Stat(testFile); err != nil {
			return Outcome{}, fmt.Errorf("test file for scenario %d: %w", rc.Scenario.ID, err)
		}
		log.Infof("Running scenario %d: %s", rc.Scenario.ID, rc.Scenario.Title)
		run = p.executor.Run(ctx, execution.Request{
			Command:      rc.Config.RunnerCommand,
			TestFile:     testFile,
			ArtifactPath: rc.ArtifactPath(),
			Dir:          rc.Config.ProductRoot(rc.Profile),
			Verbose:      rc.Verbose,
		})
		if run.Err != nil {
			log.Warnf("runner: %v", run.Err)
		}
	}

	result := p.Reconcile(rc, run)

	if err := p.ledger.MergeAndPersist(rc.LedgerPath(), rc.Profile.Key, result); err != nil {
		return Outcome{Result: result}, fmt.Errorf("persist result: %w", err)
	}
	if err := p.recorder.Record(ctx, result); err != nil {
		log.Warnf("history database: %v", err)
	}

	outcome := Outcome{Result: result}
	var err error
	outcome.Artifact, outcome.DashboardPath, err = p.Render(rc, result)
	return outcome, err
}

// Reconcile parses the runner's artifacts and infers the failure point
func (p *Pipeline) Reconcile(rc *RunContext, run domain.RunOutput) domain.ScenarioResult {
	log := rc.log()
	expected, containers := p.plannedSteps(rc)

	steps := p.parser.Parse(parser.ParseInput{
		ReportPath:      rc.ArtifactPath(),
		TestFile:        rc.TestFile(),
		ExpectedSteps:   expected,
		ContainerTitles: containers,
		ExcludeLabels:   rc.Profile.Labels(),
		Output:          run.Combined(),
		BaseStart:       run.StartedAt,
	})

	terminated := inference.DetectTermination(run)
	if terminated {
		log.Warnf("scenario %d terminated abnormally", rc.Scenario.ID)
	}
	status := inference.New(rc.Profile.ExplicitFailureTakesPrecedence()).Reconcile(steps, terminated)

	final := domain.Steps(steps)
	duration := domain.TotalDurationMs(final)
	if duration == 0 {
		duration = run.WallClockMs()
	}

	return domain.ScenarioResult{
		ScenarioID:        rc.Scenario.ID,
		Product:           rc.Profile.Key,
		Title:             rc.Scenario.Title,
		OverallStatus:     status,
		DurationMs:        duration,
		DurationFormatted: domain.FormatDuration(duration),
		StartTime:         run.StartedAt,
		EndTime:           run.FinishedAt,
		Terminated:        terminated,
		Steps:             final,
	}
}

// Render writes the scenario report and refreshes the product dashboard
func (p *Pipeline) Render(rc *RunContext, result domain.ScenarioResult) (domain.ReportArtifact, string, error) {
	now := rc.now()
	artifact, err := p.writer.Save(rc.ReportDir(), rc.Profile, result, now)
	if err != nil {
		return domain.ReportArtifact{}, "", fmt.Errorf("save report: %w", err)
	}
	dashboard, err := p.writer.UpdateIndex(rc.Config.ReportsRoot(rc.Profile), rc.Config.IndexPath(rc.Profile), rc.Profile, result, now)
	if err != nil {
		return artifact, "", fmt.Errorf("update index: %w", err)
	}
	return artifact, dashboard, nil
}

// Rerender rewrites the report of a ledger result and its dashboard row
func (p *Pipeline) Rerender(rc *RunContext, result domain.ScenarioResult) error {
	now := rc.now()
	if _, err := p.writer.Rewrite(rc.ReportDir(), rc.Profile, result, now); err != nil {
		return fmt.Errorf("rewrite report %d: %w", result.ScenarioID, err)
	}
	if _, err := p.writer.UpdateIndex(rc.Config.ReportsRoot(rc.Profile), rc.Config.IndexPath(rc.Profile), rc.Profile, result, now); err != nil {
		return fmt.Errorf("update index: %w", err)
	}
	return nil
}

// plannedSteps returns the configured step plan, or the one read from the
// spec file, and the describe titles found in the spec file.
func (p *Pipeline) plannedSteps(rc *RunContext) (steps, containers []string) {
	fromSource, containers, err := parser.ExtractStepsFromFile(rc.TestFile())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		rc.log().Warnf("read %s: %v", rc.TestFile(), err)
	}
	if len(rc.Scenario.Steps) > 0 {
		return rc.Scenario.Steps, containers
	}
	return fromSource, containers
}
