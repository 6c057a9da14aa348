// Package logging builds the hclog loggers used across streampack.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Options controls logger construction.
type Options struct {
	// Verbose enables debug output
	Verbose bool

	// JSON switches to JSON formatted lines
	JSON bool

	// Output defaults to stderr
	Output io.Writer
}

// New creates a named logger.
func New(name string, opts Options) hclog.Logger {
	level := hclog.Info
	if opts.Verbose {
		level = hclog.Debug
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      level,
		Output:     out,
		JSONFormat: opts.JSON,
	})
}

// Discard returns a logger that drops everything.
func Discard() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Level:  hclog.Off,
		Output: io.Discard,
	})
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l hclog.Logger) hclog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
