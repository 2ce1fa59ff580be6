// Package logging builds the zerolog loggers used by the binaries.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const runLogLayout = "20060102_150405"

// Options configures a logger
type Options struct {
	Level   string
	Format  string // json or console
	Output  io.Writer
	Service string
}

// New creates a logger writing to opts.Output (stderr when unset)
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	return build(writer(out, opts.Format), opts)
}

// NewWithRunLog is New plus a copy of every event in dir/run_<timestamp>.log.
// The returned function closes the file.
func NewWithRunLog(opts Options, dir string, now time.Time) (zerolog.Logger, string, func() error, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerolog.Nop(), "", nil, fmt.Errorf("creating log directory: %w", err)
	}
	path := filepath.Join(dir, "run_"+now.Format(runLogLayout)+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return zerolog.Nop(), "", nil, fmt.Errorf("opening run log: %w", err)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	multi := zerolog.MultiLevelWriter(writer(out, opts.Format), f)
	return build(multi, opts), path, f.Close, nil
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func writer(out io.Writer, format string) io.Writer {
	if format == "console" {
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return out
}

func build(w io.Writer, opts Options) zerolog.Logger {
	l := zerolog.New(w).Level(ParseLevel(opts.Level)).With().Timestamp()
	if opts.Service != "" {
		l = l.Str("service", opts.Service)
	}
	return l.Logger()
}
