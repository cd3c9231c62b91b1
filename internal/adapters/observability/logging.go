package observability

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog Logger tagged with the service name.
// APP_ENV=dev (or development) uses a human-friendly console writer.
func NewLogger(env, service string) zerolog.Logger {
	return newLogger(os.Stdout, env, service)
}

func newLogger(w io.Writer, env, service string) zerolog.Logger {
	if env == "dev" || env == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: !isTerminal(w)}
	}
	return zerolog.New(w).With().Timestamp().Str("service", service).Logger()
}

// isTerminal is false for pipes, files and buffers, which get no ANSI colours.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
