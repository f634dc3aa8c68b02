// Package logging builds the zerolog logger used by the command line and
// bridges pipeline progress messages onto it.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"landfunnel/internal/pipeline"
)

// Config holds logger options.
type Config struct {
	// Level is trace, debug, info, warn or error. Anything else means info.
	Level string
	// Format is auto, console or json. Auto picks console on a terminal.
	Format string
	// Out defaults to os.Stderr.
	Out     io.Writer
	NoColor bool
}

// New returns a logger for cfg.
func New(cfg Config) zerolog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	format := strings.ToLower(cfg.Format)
	if format == "" || format == "auto" {
		format = "json"
		if IsTerminal(out) {
			format = "console"
		}
	}

	w := out
	if format == "console" {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.NoColor || os.Getenv("NO_COLOR") != "",
		}
	}

	return zerolog.New(w).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Progress adapts logger to the pipeline's progress callback. Success
// messages are logged at info level with status=success.
func Progress(logger zerolog.Logger) pipeline.LogFunc {
	return func(level pipeline.Level, msg string) {
		var ev *zerolog.Event
		switch level {
		case pipeline.LevelWarn:
			ev = logger.Warn()
		case pipeline.LevelError:
			ev = logger.Error()
		default:
			ev = logger.Info()
		}
		ev.Str("status", level.String()).Msg(msg)
	}
}
