// Package logging wires zerolog for productsummary.
//
// Loggers travel in a context.Context. Every event logged with .Ctx(ctx)
// picks up the trace ID stored in that context, so a single case lookup can
// be followed across the case fetch, the product fetch and the backend.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Output targets.
const (
	OutputStderr  = "stderr"
	OutputFile    = "file"
	OutputDiscard = "discard"
)

// Formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config describes how the logger is built.
type Config struct {
	Level  string
	Format string
	Output string
	File   string
	Caller bool
}

// Result is the outcome of NewLogger. When Output is "file" and the file
// cannot be opened the logger falls back to stderr and FallbackReason says why.
type Result struct {
	Logger         zerolog.Logger
	UsingFile      bool
	FilePath       string
	FallbackUsed   bool
	FallbackReason string

	file *os.File
}

// Close releases the log file handle, if any.
func (r *Result) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// NewLogger builds a zerolog.Logger for cfg.
func NewLogger(cfg Config) Result {
	var (
		out    io.Writer = os.Stderr
		result Result
	)

	switch strings.ToLower(cfg.Output) {
	case OutputDiscard:
		out = io.Discard
	case OutputFile:
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			result.FallbackUsed = true
			result.FallbackReason = err.Error()
		} else {
			out = f
			result.file = f
			result.UsingFile = true
			result.FilePath = cfg.File
		}
	}

	result.Logger = newLogger(out, cfg)
	return result
}

// NewWithWriter builds a logger writing to w. Handy in tests.
func NewWithWriter(w io.Writer, cfg Config) zerolog.Logger {
	return newLogger(w, cfg)
}

func newLogger(w io.Writer, cfg Config) zerolog.Logger {
	if strings.EqualFold(cfg.Format, FormatConsole) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		Hook(traceHook{}).
		With().
		Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// ParseLevel parses a level name, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// ComponentLogger returns a child logger tagged with the component name.
func ComponentLogger(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}

// FromContext returns the logger stored in ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// PrintLogPathMessage tells the user where logs are going.
func PrintLogPathMessage(w io.Writer, path string) {
	_, _ = fmt.Fprintf(w, "Logging to %s\n", path)
}

// PrintFallbackWarning reports that file logging could not be enabled.
func PrintFallbackWarning(w io.Writer, reason string) {
	_, _ = fmt.Fprintf(w, "Warning: could not open log file (%s), logging to stderr\n", reason)
}
