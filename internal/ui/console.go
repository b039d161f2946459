package ui

import (
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Console writes human readable progress lines. It is safe for concurrent
// use by parallel scenario runs.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	info    *color.Color
	success *color.Color
	warn    *color.Color
	fail    *color.Color
}

// NewConsole creates a Console writing to out (stdout when nil)
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{
		out:     out,
		info:    color.New(color.FgCyan),
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed),
	}
}

// Infof writes a progress line
func (c *Console) Infof(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.info.Fprintf(c.out, "▶ "+format+"\n", args...)
}

// Successf writes a success line
func (c *Console) Successf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.success.Fprintf(c.out, "✓ "+format+"\n", args...)
}

// Warnf writes a warning line
func (c *Console) Warnf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warn.Fprintf(c.out, "⚠ "+format+"\n", args...)
}

// Errorf writes a failure line
func (c *Console) Errorf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail.Fprintf(c.out, "✗ "+format+"\n", args...)
}
