package parser

import (
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"psr/internal/domain"
)

// PlaywrightParser parses Playwright JSON reports and list reporter output
type PlaywrightParser struct {
	log Logger
}

// NewPlaywrightParser creates a new PlaywrightParser
func NewPlaywrightParser(log Logger) *PlaywrightParser {
	if log == nil {
		log = nopLogger{}
	}
	return &PlaywrightParser{log: log}
}

type playwrightReport struct {
	Suites []playwrightSuite `json:"suites"`
}

type playwrightSuite struct {
	Title  string            `json:"title"`
	File   string            `json:"file"`
	Specs  []playwrightSpec  `json:"specs"`
	Suites []playwrightSuite `json:"suites"`
}

type playwrightSpec struct {
	Title string           `json:"title"`
	File  string           `json:"file"`
	Line  int              `json:"line"`
	Tests []playwrightTest `json:"tests"`
}

type playwrightTest struct {
	Status  string             `json:"status"`
	Results []playwrightResult `json:"results"`
}

type playwrightResult struct {
	Status    string `json:"status"`
	Duration  int64  `json:"duration"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Errors    []any  `json:"errors"`
	Error     any    `json:"error"`
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

func (p *PlaywrightParser) parseReport(in ParseInput) []domain.ParsedStep {
	if in.ReportPath == "" {
		return nil
	}
	data, err := os.ReadFile(in.ReportPath)
	if err != nil {
		p.log.Warnf("no JSON report at %s: %v", in.ReportPath, err)
		return nil
	}
	var report playwrightReport
	if err := json.Unmarshal(data, &report); err != nil {
		p.log.Warnf("malformed JSON report %s: %v", in.ReportPath, err)
		return nil
	}

	suite := findSuite(report.Suites, in.TestFile)
	if suite == nil {
		p.log.Warnf("no suite in %s matches %s", in.ReportPath, in.TestFile)
		return nil
	}

	labels := newLabelMatcher(in.ContainerTitles, in.ExcludeLabels)
	var steps []domain.ParsedStep
	cursor := in.BaseStart
	for _, spec := range flatten(*suite) {
		if labels.excluded(spec.Title) {
			continue
		}
		step, end := stepFromSpec(spec, cursor)
		if step.HasResult && !end.IsZero() {
			cursor = end
		}
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		return nil
	}
	return appendMissing(steps, in.ExpectedSteps)
}

// findSuite picks the suite for testFile. Patterns are tried in order and the
// first pattern with any match wins, so an exact path beats a substring.
func findSuite(suites []playwrightSuite, testFile string) *playwrightSuite {
	var all []*playwrightSuite
	var walk func(list []playwrightSuite)
	walk = func(list []playwrightSuite) {
		for i := range list {
			all = append(all, &list[i])
			walk(list[i].Suites)
		}
	}
	walk(suites)

	target := filepath.ToSlash(filepath.Clean(testFile))
	base := path.Base(target)
	stem, _, _ := strings.Cut(base, ".")
	// scenario-1 must not match scenario-10
	stemMatch := regexp.MustCompile(regexp.QuoteMeta(stem) + `(?:\D|$)`)

	patterns := []func(s *playwrightSuite) bool{
		func(s *playwrightSuite) bool { return s.File != "" && filepath.ToSlash(s.File) == target },
		func(s *playwrightSuite) bool {
			return s.File != "" && strings.HasSuffix(target, "/"+strings.TrimPrefix(filepath.ToSlash(s.File), "./"))
		},
		func(s *playwrightSuite) bool { return s.File != "" && path.Base(filepath.ToSlash(s.File)) == base },
		func(s *playwrightSuite) bool {
			return stem != "" && (stemMatch.MatchString(s.File) || stemMatch.MatchString(s.Title))
		},
	}
	for _, match := range patterns {
		for _, s := range all {
			if match(s) {
				return s
			}
		}
	}
	return nil
}

// flatten collects the specs of a suite tree in source order
func flatten(s playwrightSuite) []playwrightSpec {
	var specs []playwrightSpec
	var walk func(s playwrightSuite)
	walk = func(s playwrightSuite) {
		specs = append(specs, s.Specs...)
		for _, child := range s.Suites {
			walk(child)
		}
	}
	walk(s)

	for _, spec := range specs {
		if spec.Line <= 0 {
			return specs
		}
	}
	sort.SliceStable(specs, func(i, j int) bool { return specs[i].Line < specs[j].Line })
	return specs
}

func stepFromSpec(spec playwrightSpec, cursor time.Time) (domain.ParsedStep, time.Time) {
	if len(spec.Tests) == 0 || len(spec.Tests[0].Results) == 0 {
		return notExecutedStep(spec.Title), time.Time{}
	}
	// retries append results, the last one is the outcome
	results := spec.Tests[0].Results
	res := results[len(results)-1]

	step := domain.ParsedStep{
		StepResult: domain.StepResult{
			Name:       spec.Title,
			Status:     mapStatus(res.Status),
			DurationMs: max(res.Duration, 0),
		},
		HasResult: true,
	}
	if info := firstError(res); !info.IsZero() {
		step.SetError(info)
	} else if step.Status == domain.StatusFail {
		step.SetError(domain.Message(res.Status))
	}

	start := parseTime(res.StartTime)
	if start.IsZero() {
		start = cursor
	}
	if start.IsZero() {
		return step, time.Time{}
	}
	end := parseTime(res.EndTime)
	if end.IsZero() {
		end = start.Add(time.Duration(step.DurationMs) * time.Millisecond)
	}
	step.StartTime = &start
	step.EndTime = &end
	return step, end
}

func mapStatus(status string) domain.Status {
	switch status {
	case "passed":
		return domain.StatusPass
	case "failed", "timedOut":
		return domain.StatusFail
	default:
		// skipped, interrupted
		return domain.StatusNotTest
	}
}

func firstError(res playwrightResult) domain.ErrorInfo {
	for _, e := range res.Errors {
		if info := domain.NewErrorInfo(e); !info.IsZero() {
			info.Text = cleanMessage(info.Text)
			return info
		}
	}
	info := domain.NewErrorInfo(res.Error)
	info.Text = cleanMessage(info.Text)
	return info
}

func cleanMessage(s string) string {
	return strings.TrimSpace(ansiEscape.ReplaceAllString(s, ""))
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// appendMissing adds planned steps the report never mentioned
func appendMissing(steps []domain.ParsedStep, expected []string) []domain.ParsedStep {
	reported := make(map[string]int, len(steps))
	for _, s := range steps {
		reported[s.Name]++
	}
	planned := make(map[string]int, len(expected))
	for _, name := range expected {
		planned[name]++
		if planned[name] > reported[name] {
			steps = append(steps, notExecutedStep(name))
		}
	}
	return steps
}
