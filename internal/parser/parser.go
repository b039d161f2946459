package parser

import (
	"strconv"
	"strings"
	"time"

	"psr/internal/domain"
)

// Parser turns a runner's artifacts into an ordered list of steps
type Parser interface {
	Parse(in ParseInput) []domain.ParsedStep
}

// Logger receives recoverable problems found while parsing
type Logger interface {
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}

// ParseInput is everything known about one run when it is parsed
type ParseInput struct {
	ReportPath string // Playwright JSON report, may not exist
	TestFile   string // spec file the scenario ran
	// ExpectedSteps is the planned step order
	ExpectedSteps []string
	// ContainerTitles are describe block titles, matched exactly
	ContainerTitles []string
	// ExcludeLabels are substrings, or regexes prefixed with "re:"
	ExcludeLabels []string
	// Output is the captured stdout/stderr of the runner
	Output    string
	BaseStart time.Time
}

const notExecuted = "not executed"

// Parse builds the step list from the JSON report, falling back to the
// captured output when the report yields nothing.
func (p *PlaywrightParser) Parse(in ParseInput) []domain.ParsedStep {
	steps := p.parseReport(in)
	if len(steps) == 0 && strings.TrimSpace(in.Output) != "" {
		steps = p.parseOutput(in)
	}
	return dedupe(steps)
}

// dedupe suffixes repeated step names with their occurrence number, skipping
// numbers whose name is already a reported title
func dedupe(steps []domain.ParsedStep) []domain.ParsedStep {
	reported := make(map[string]bool, len(steps))
	for _, s := range steps {
		reported[s.Name] = true
	}
	used := make(map[string]bool, len(steps))
	next := make(map[string]int, len(steps))
	for i := range steps {
		name := steps[i].Name
		if !used[name] {
			used[name] = true
			continue
		}
		n := next[name]
		if n == 0 {
			n = 1
		}
		candidate := name
		for used[candidate] || reported[candidate] {
			n++
			candidate = name + " (" + strconv.Itoa(n) + ")"
		}
		next[name] = n
		used[candidate] = true
		steps[i].Name = candidate
	}
	return steps
}

func notExecutedStep(name string) domain.ParsedStep {
	step := domain.ParsedStep{
		StepResult: domain.StepResult{Name: name, Status: domain.StatusNotTest},
	}
	step.SetError(domain.Message(notExecuted))
	return step
}
