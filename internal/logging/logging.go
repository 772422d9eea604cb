// Package logging builds the process zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Options selects level, format and destination.
type Options struct {
	Level  string // trace, debug, info, warn, error; empty means info
	Format string // auto, console or json
	File   string // append to this file instead of stderr

	// Quiet discards output unless File is set. The TUI uses it so log
	// lines never land on the screen it draws.
	Quiet bool
}

// New returns a logger for opts and a closer for any opened file.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		l, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, errors.Wrapf(err, "log level %q", opts.Level)
		}
		level = l
	}

	var (
		out    io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
		tty              = isatty.IsTerminal(os.Stderr.Fd())
	)
	switch {
	case opts.File != "":
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, errors.Wrap(err, "open log file")
		}
		out, closer, tty = f, f, false
	case opts.Quiet:
		return zerolog.Nop(), closer, nil
	}

	if opts.Format == "console" || (opts.Format != "json" && tty) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: !tty}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
