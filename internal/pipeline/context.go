package pipeline

import (
	"time"

	"psr/internal/config"
)

// Logger receives pipeline progress and recoverable problems
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...any) {}
func (nopLogger) Warnf(string, ...any) {}

// RunContext carries everything one scenario run needs. It replaces any
// process-wide state: two contexts never share mutable data.
type RunContext struct {
	Config   *config.Config
	Profile  config.ProductProfile
	Scenario config.Scenario

	Verbose    bool
	ReportOnly bool

	Now func() time.Time
	Log Logger
}

// NewRunContext builds the context of one scenario run
func NewRunContext(cfg *config.Config, profile config.ProductProfile, scenario config.Scenario, log Logger) *RunContext {
	if log == nil {
		log = nopLogger{}
	}
	return &RunContext{
		Config:     cfg,
		Profile:    profile,
		Scenario:   scenario,
		Verbose:    cfg.Flags.Verbose,
		ReportOnly: cfg.Flags.ReportOnly,
		Now:        time.Now,
		Log:        log,
	}
}

// TestFile returns the scenario's spec file
func (rc *RunContext) TestFile() string {
	return rc.Config.TestFilePath(rc.Profile, rc.Scenario)
}

// ArtifactPath returns the runner's JSON report path
func (rc *RunContext) ArtifactPath() string {
	return rc.Config.ArtifactPath(rc.Profile, rc.Scenario.ID)
}

// LedgerPath returns the product ledger path
func (rc *RunContext) LedgerPath() string {
	return rc.Config.LedgerPath(rc.Profile)
}

// ReportDir returns the scenario's report directory
func (rc *RunContext) ReportDir() string {
	return rc.Config.ScenarioReportDir(rc.Profile, rc.Scenario.ID)
}

func (rc *RunContext) now() time.Time {
	if rc.Now == nil {
		return time.Now()
	}
	return rc.Now()
}

func (rc *RunContext) log() Logger {
	if rc.Log == nil {
		return nopLogger{}
	}
	return rc.Log
}
