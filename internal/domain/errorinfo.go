package domain

import (
	"fmt"
	"strings"
)

// ErrorKind tags where an error message came from
type ErrorKind string

const (
	ErrorKindMessage   ErrorKind = "message"
	ErrorKindException ErrorKind = "exception"
	ErrorKindUnknown   ErrorKind = "unknown"
)

// ErrorInfo is the single error shape used after the runner boundary.
type ErrorInfo struct {
	Kind ErrorKind
	Text string
}

// Message builds a plain message ErrorInfo
func Message(text string) ErrorInfo {
	return ErrorInfo{Kind: ErrorKindMessage, Text: text}
}

// NewErrorInfo folds the shapes an error can take when it is first observed:
// a string, a Go error, a decoded JSON object with a message field, or
// anything else.
func NewErrorInfo(v any) ErrorInfo {
	switch e := v.(type) {
	case nil:
		return ErrorInfo{}
	case string:
		return Message(strings.TrimSpace(e))
	case error:
		return ErrorInfo{Kind: ErrorKindException, Text: e.Error()}
	case map[string]any:
		for _, key := range []string{"message", "value", "stack"} {
			if s, ok := e[key].(string); ok && strings.TrimSpace(s) != "" {
				return ErrorInfo{Kind: ErrorKindException, Text: strings.TrimSpace(s)}
			}
		}
		return ErrorInfo{Kind: ErrorKindUnknown, Text: fmt.Sprint(e)}
	default:
		return ErrorInfo{Kind: ErrorKindUnknown, Text: fmt.Sprint(e)}
	}
}

// IsZero reports whether no error was recorded
func (e ErrorInfo) IsZero() bool {
	return e.Text == ""
}
