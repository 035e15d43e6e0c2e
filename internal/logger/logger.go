package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options configure the application logger. Logs never go to stdout, which belongs to the
// interactive menu.
type Options struct {
	Level  string `mapstructure:"level"  yaml:"level"  doc:"log from debug, info, warn or error"`
	File   string `mapstructure:"file"   yaml:"file"   doc:"append logs to file, - for stderr"`
	Format string `mapstructure:"format" yaml:"format" doc:"format logs as text or json"`
}

func level(option string) (slog.Leveler, bool) {
	switch strings.ToLower(option) {
	case "":
		return nil, true
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return nil, false
	}
}

// New builds a logger from options. Values that cannot be used are reset to their defaults
// and a warning is logged. The returned closer releases the log file, if any.
func New(options *Options) (*slog.Logger, io.Closer) {
	return newLogger(options, os.Stderr)
}

func newLogger(options *Options, stderr io.Writer) (*slog.Logger, io.Closer) {
	level, ok := level(options.Level)
	if !ok {
		bad := options.Level
		options.Level = ""
		logger, closer := newLogger(options, stderr)
		logger.Warn("could not parse logger level", "level", bad)
		return logger, closer
	}
	opts := slog.HandlerOptions{Level: level}

	var output io.Writer
	closer := io.Closer(nopCloser{})
	switch options.File {
	case "", "-":
		output = stderr
	case os.DevNull:
		return slog.New(slog.DiscardHandler), closer
	default:
		file, err := os.OpenFile(options.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			options.File = ""
			logger, closer := newLogger(options, stderr)
			logger.Warn("could not open logger file", "err", err)
			return logger, closer
		}
		output, closer = file, file
	}

	switch strings.ToLower(options.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(output, &opts)), closer
	case "text", "":
		return slog.New(slog.NewTextHandler(output, &opts)), closer
	default:
		closer.Close()
		options.Format = "text"
		logger, closer := newLogger(options, stderr)
		logger.Warn("could not parse logger format")
		return logger, closer
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
