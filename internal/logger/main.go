// Package logger configures the global zerolog logger of the service.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// LevelWriter splits log output by level.
// See func WriteLevel about the separation.
type LevelWriter struct {
	ErrorWriter io.Writer
	InfoWriter  io.Writer
	TraceWriter io.Writer
	WarnWriter  io.Writer
}

// WriteLevel writes p to the writer configured for level l.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (n int, err error) {
	var w io.Writer

	if l == zerolog.Disabled {
		return 0, nil
	}

	switch {
	case l == zerolog.NoLevel: // access logs
		w = lw.InfoWriter
	case l == zerolog.TraceLevel:
		w = lw.TraceWriter
	case l == zerolog.WarnLevel:
		w = lw.WarnWriter
	case l > zerolog.WarnLevel: // error, fatal and panic
		w = lw.ErrorWriter
	default:
		w = lw.InfoWriter // debug and info
	}

	return w.Write(p) //nolint:wrapcheck
}

// Write sends level-less events (access logs, zerolog.Log()) to the info writer.
func (lw *LevelWriter) Write(p []byte) (n int, err error) {
	return lw.InfoWriter.Write(p) //nolint:wrapcheck
}

// Init the zerolog logger.
// Depending on the config it enables all, some or no writer at all.
// Be sure to enable at least one writer for output.
func Init(cfg Log) error {
	var (
		logLevel, err = zerolog.ParseLevel(cfg.LogLevel)
		writers       []io.Writer
		stack         bool
	)

	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("loglevel %s is not supported", cfg.LogLevel))
	}

	if cfg.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return ErrAppNameIsEmpty
	}

	// stack traces for pkg/errors wrapped errors at trace level
	if logLevel == zerolog.TraceLevel {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
		stack = true
	}

	zerolog.SetGlobalLevel(logLevel)
	zerolog.ErrorHandler = errorHandler(cfg.ServiceName) //nolint:reassign

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg))
	}

	if cfg.File.Enabled {
		fw, err := newRollingFiles(cfg)
		if err != nil {
			return err
		}

		writers = append(writers, fw)
	}

	mw := zerolog.MultiLevelWriter(writers...)

	base := zerolog.New(mw).Hook(NewHook(cfg.ServiceName)).With().Timestamp().
		Str("app", cfg.AppName).
		Str("service", cfg.ServiceName)

	if cfg.LogEnv != "" {
		base = base.Str("env", cfg.LogEnv)
	}

	switch {
	case cfg.ReportCaller && stack:
		log.Logger = base.Stack().Caller().Logger()
	case cfg.ReportCaller:
		log.Logger = base.Caller().Logger()
	case stack:
		log.Logger = base.Stack().Logger()
	default:
		log.Logger = base.Logger()
	}

	return nil
}

// newRollingFiles creates the log directory and the rolling file of every level stream.
func newRollingFiles(cfg Log) (io.Writer, error) {
	if err := os.MkdirAll(cfg.File.Path, 0o750); err != nil { //nolint: mnd
		return nil, errors.Wrapf(err, "can't create log directory %s", cfg.File.Path)
	}

	return &LevelWriter{
		ErrorWriter: cfg.File.Error.Writer(cfg.File.Path),
		InfoWriter:  cfg.File.Info.Writer(cfg.File.Path),
		TraceWriter: cfg.File.Trace.Writer(cfg.File.Path),
		WarnWriter:  cfg.File.Warn.Writer(cfg.File.Path),
	}, nil
}

// NewConsoleWriter creates a console writer sending info and debug to stdout
// and everything else to stderr.
func NewConsoleWriter(cfg Log) io.Writer {
	if !cfg.Console.UseConsoleWriter {
		return &LevelWriter{
			ErrorWriter: os.Stderr,
			InfoWriter:  os.Stdout,
			TraceWriter: os.Stderr,
			WarnWriter:  os.Stderr,
		}
	}

	stdout := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: zerolog.TimeFieldFormat}
	stderr := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: zerolog.TimeFieldFormat}

	return &LevelWriter{
		ErrorWriter: stderr,
		InfoWriter:  stdout,
		TraceWriter: stderr,
		WarnWriter:  stderr,
	}
}
