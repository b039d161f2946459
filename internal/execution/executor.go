package execution

import (
	"context"

	"psr/internal/domain"
)

// Executor runs a scenario's test file and reports what the process did
type Executor interface {
	Run(ctx context.Context, req Request) domain.RunOutput
}

// Request describes one runner invocation
type Request struct {
	Command      []string // runner argv prefix, e.g. npx playwright test
	TestFile     string
	ArtifactPath string // where the JSON reporter writes its report
	Dir          string
	Verbose      bool
}

// Args returns the full argv of the runner process
func (r Request) Args() []string {
	args := make([]string, 0, len(r.Command)+2)
	args = append(args, r.Command...)
	args = append(args, r.TestFile, "--reporter=list,json")
	return args
}
