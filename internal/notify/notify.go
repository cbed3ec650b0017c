// Package notify renders transient user-facing notices (warning, error,
// success) on the console.
package notify

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Console writes colored notices to a single writer.
type Console struct {
	out     io.Writer
	warn    *color.Color
	failure *color.Color
	success *color.Color
}

// NewConsole creates a Console writing to stderr.
func NewConsole() *Console {
	return NewConsoleWithWriter(os.Stderr)
}

// NewConsoleWithWriter creates a Console writing to w.
func NewConsoleWithWriter(w io.Writer) *Console {
	return &Console{
		out:     w,
		warn:    color.New(color.FgYellow),
		failure: color.New(color.FgRed),
		success: color.New(color.FgGreen),
	}
}

func (c *Console) Warnf(format string, args ...interface{}) {
	c.warn.Fprintf(c.out, "! "+format+"\n", args...)
}

func (c *Console) Errorf(format string, args ...interface{}) {
	c.failure.Fprintf(c.out, "x "+format+"\n", args...)
}

func (c *Console) Successf(format string, args ...interface{}) {
	c.success.Fprintf(c.out, "+ "+format+"\n", args...)
}

// Discard swallows all notices. Used in tests.
type Discard struct{}

func (Discard) Warnf(format string, args ...interface{})    {}
func (Discard) Errorf(format string, args ...interface{})   {}
func (Discard) Successf(format string, args ...interface{}) {}

// Recorder captures notices for assertions in tests.
type Recorder struct {
	Warnings  []string
	Errors    []string
	Successes []string
}

func (r *Recorder) Warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Recorder) Errorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Recorder) Successf(format string, args ...interface{}) {
	r.Successes = append(r.Successes, fmt.Sprintf(format, args...))
}
