package parser

import (
	"os"
	"regexp"
	"strings"
)

// quoted string literal in any of the three JS quote styles
const jsString = `(?:'((?:\\.|[^'\\])*)'|"((?:\\.|[^"\\])*)"|` + "`" + `((?:\\.|[^` + "`" + `\\])*)` + "`" + `)`

var (
	testCall     = regexp.MustCompile(`\btest(?:\.(?:only|skip|fixme|fail))?\s*\(\s*` + jsString)
	describeCall = regexp.MustCompile(`\btest\.describe(?:\.(?:serial|parallel|only|skip))?\s*\(\s*` + jsString)
	jsEscape     = strings.NewReplacer(`\'`, `'`, `\"`, `"`, "\\`", "`", `\\`, `\`)
)

// ExtractSteps returns the test titles of a generated spec file in source
// order, and the describe block titles that wrap them.
func ExtractSteps(source string) (steps, containers []string) {
	for _, m := range testCall.FindAllStringSubmatch(source, -1) {
		steps = append(steps, literal(m))
	}
	for _, m := range describeCall.FindAllStringSubmatch(source, -1) {
		containers = append(containers, literal(m))
	}
	return steps, containers
}

// ExtractStepsFromFile reads a spec file and extracts its steps
func ExtractStepsFromFile(path string) (steps, containers []string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	steps, containers = ExtractSteps(string(data))
	return steps, containers, nil
}

func literal(m []string) string {
	for _, group := range m[1:] {
		if group != "" {
			return jsEscape.Replace(group)
		}
	}
	return ""
}
