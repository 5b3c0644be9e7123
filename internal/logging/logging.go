// Package logging builds the application slog logger: machine-readable
// JSON for non-interactive use (pipelines, CI, log shippers) and a plain
// text handler when a human is watching the terminal.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ErrInvalidLevel is returned for unrecognized level names.
var ErrInvalidLevel = errors.New("invalid log level")

// Options controls logger construction.
type Options struct {
	// Level is one of "debug", "info", "warn", "error". Empty means warn.
	Level string

	// Interactive selects the human-readable text handler over JSON.
	Interactive bool

	// Output is the destination writer. Nil means os.Stderr.
	Output io.Writer
}

// New constructs a slog logger from the options.
func New(opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if opts.Interactive {
		handler = slog.NewTextHandler(out, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(out, handlerOpts)
	}
	return slog.New(handler), nil
}

// ParseLevel converts a level name to a slog.Level. Empty defaults to warn
// so routine decisions stay quiet unless asked for.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
	}
}
