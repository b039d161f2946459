package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"psr/internal/domain"
)

// EnvJSONOutput tells the Playwright JSON reporter where to write
const EnvJSONOutput = "PLAYWRIGHT_JSON_OUTPUT_NAME"

const waitDelay = 5 * time.Second

// Runner executes the Playwright test runner as a subprocess
type Runner struct {
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

// NewRunner creates a Runner teeing verbose output to stdout and stderr
func NewRunner(stdout, stderr io.Writer) *Runner {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Runner{stdout: stdout, stderr: stderr, now: time.Now}
}

// Run executes the runner for a single test file. A failing test run is not
// an error: the exit code and output are reported for reconciliation.
func (r *Runner) Run(ctx context.Context, req Request) domain.RunOutput {
	out := domain.RunOutput{StartedAt: r.now()}

	args := req.Args()
	if len(req.Command) == 0 {
		out.Err = errors.New("no runner command configured")
		out.FinishedAt = r.now()
		return out
	}

	if req.ArtifactPath != "" {
		if err := os.MkdirAll(filepath.Dir(req.ArtifactPath), 0755); err != nil {
			out.Err = fmt.Errorf("create artifact dir: %w", err)
			out.FinishedAt = r.now()
			return out
		}
		// a stale report from an earlier run must not be reconciled
		os.Remove(req.ArtifactPath)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = os.Environ()
	if req.ArtifactPath != "" {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", EnvJSONOutput, req.ArtifactPath))
	}
	cmd.Dir = req.Dir
	// browsers spawned by the runner may hold the pipes after it is killed
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	if req.Verbose {
		cmd.Stdout = io.MultiWriter(&stdout, r.stdout)
		cmd.Stderr = io.MultiWriter(&stderr, r.stderr)
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	out.FinishedAt = r.now()
	out.Stdout = stdout.String()
	out.Stderr = stderr.String()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.Is(err, exec.ErrWaitDelay):
		out.ExitCode = cmd.ProcessState.ExitCode()
	case errors.As(err, &exitErr):
		out.ExitCode = exitErr.ExitCode()
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			out.Signaled = true
		}
		if ctx.Err() != nil {
			out.Err = ctx.Err()
		}
	default:
		out.ExitCode = -1
		out.Err = fmt.Errorf("run %s: %w", args[0], err)
	}
	return out
}
