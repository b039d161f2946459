package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"psr/internal/config"
	"psr/internal/execution"
	"psr/internal/parser"
	"psr/internal/pipeline"
	"psr/internal/report"
	"psr/internal/storage"
	"psr/internal/ui"
)

// ErrScenarioFailed is returned when a scenario did not pass. It carries no
// message of its own: the run summary has already been printed.
var ErrScenarioFailed = errors.New("scenario did not pass")

// Deps holds the collaborators shared by all commands
type Deps struct {
	Config    *config.Config
	Out       io.Writer
	ErrOut    io.Writer
	Console   *ui.Console
	Formatter *ui.Formatter
	Executor  execution.Executor
	Parser    parser.Parser
	Ledger    storage.Store
	Index     *storage.ScenarioIndex
	Writer    *report.Writer
	// OpenRecorder connects the optional run history database
	OpenRecorder func(ctx context.Context, cfg config.DBConfig) (storage.Recorder, error)
}

// NewDeps wires the default collaborators around cfg
func NewDeps(cfg *config.Config, out, errOut io.Writer) *Deps {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	console := ui.NewConsole(out)
	index := storage.NewScenarioIndex(cfg.LockTimeout, cfg.StaleLockAge, console)
	return &Deps{
		Config:       cfg,
		Out:          out,
		ErrOut:       errOut,
		Console:      console,
		Formatter:    ui.NewFormatter(out),
		Executor:     execution.NewRunner(out, errOut),
		Parser:       parser.NewPlaywrightParser(console),
		Ledger:       storage.NewJSONLedger(cfg.LockTimeout, cfg.StaleLockAge, console),
		Index:        index,
		Writer:       report.NewWriter(report.NewRenderer(), index),
		OpenRecorder: storage.NewRecorder,
	}
}

// pipeline builds the pipeline with the history recorder. The returned
// close function releases the recorder.
func (d *Deps) pipeline(ctx context.Context) (*pipeline.Pipeline, func()) {
	recorder, err := d.OpenRecorder(ctx, d.Config.DB)
	if err != nil {
		d.Console.Warnf("history database disabled: %v", err)
		recorder = storage.NopRecorder{}
	}
	p := pipeline.New(d.Executor, d.Parser, d.Ledger, recorder, d.Writer)
	return p, func() { recorder.Close() }
}

func (d *Deps) profile() (config.ProductProfile, error) {
	return d.Config.Profile()
}

func parseScenarioID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid scenario id %q", arg)
	}
	return id, nil
}
