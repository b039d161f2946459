package parser

import (
	"regexp"
	"strconv"
	"time"

	"psr/internal/domain"
)

const (
	passMarkers = `(?:✓|✔|√|\bok\b)`
	failMarkers = `(?:✘|✗|×)`
	// the title starts after the last "›", or right after the marker and
	// the optional test index when there is no project or file column
	titleStart = `(?:.*?›\s*|\s+(?:\d+\s+)?)`
	// "(12ms)" or "(1.25s)" after the step name
	durationTail = `\s*\((\d+(?:\.\d+)?)(ms|s)\)`
)

// parseOutput classifies the expected steps from list reporter lines. It is
// only used when the JSON report produced no steps.
func (p *PlaywrightParser) parseOutput(in ParseInput) []domain.ParsedStep {
	if len(in.ExpectedSteps) == 0 {
		return nil
	}
	text := ansiEscape.ReplaceAllString(in.Output, "")
	steps := make([]domain.ParsedStep, 0, len(in.ExpectedSteps))
	cursor := in.BaseStart

	for _, name := range in.ExpectedSteps {
		quoted := titleStart + regexp.QuoteMeta(name) + durationTail
		pass := regexp.MustCompile(`(?m)^.*?` + passMarkers + quoted)
		fail := regexp.MustCompile(`(?m)^.*?` + failMarkers + quoted)

		var step domain.ParsedStep
		if m := pass.FindStringSubmatch(text); m != nil {
			step = outputStep(name, domain.StatusPass, m[1], m[2])
		} else if m := fail.FindStringSubmatch(text); m != nil {
			step = outputStep(name, domain.StatusFail, m[1], m[2])
			step.SetError(domain.Message("failed"))
		} else {
			steps = append(steps, notExecutedStep(name))
			continue
		}

		if !cursor.IsZero() {
			start := cursor
			end := start.Add(time.Duration(step.DurationMs) * time.Millisecond)
			step.StartTime, step.EndTime = &start, &end
			cursor = end
		}
		steps = append(steps, step)
	}

	p.log.Warnf("used runner output for %d step(s), JSON report had none", len(steps))
	return steps
}

func outputStep(name string, status domain.Status, value, unit string) domain.ParsedStep {
	return domain.ParsedStep{
		StepResult: domain.StepResult{
			Name:       name,
			Status:     status,
			DurationMs: parseDurationMs(value, unit),
		},
		HasResult: true,
	}
}

func parseDurationMs(value, unit string) int64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	if unit == "s" {
		f *= 1000
	}
	return int64(f + 0.5)
}
