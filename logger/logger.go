// Package logger builds the structured logger used by the cointax commands.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config selects the level, the encoding and the destination of the logs.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json or console
	Output string // stdout, stderr, or file path
}

// New returns a logger configured by cfg, and a function closing the output
// file if any.
func New(cfg Config) (zerolog.Logger, func() error, error) {
	nop := func() error { return nil }
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), nop, fmt.Errorf("invalid log level: %w", err)
		}
	}

	var output io.Writer
	closer := nop
	switch cfg.Output {
	case "", "stderr":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	default:
		file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), nop, fmt.Errorf("could not open log file: %w", err)
		}
		output, closer = file, file.Close
	}

	switch cfg.Format {
	case "", "console":
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.TimeOnly}
	case "json":
	default:
		return zerolog.Nop(), closer, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger(), closer, nil
}
