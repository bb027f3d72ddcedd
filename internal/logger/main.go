// Package logger configures the global zerolog logger of relaone-web.
package logger

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelWriter routes each log line to a writer picked by its level.
// See WriteLevel about the separation.
type LevelWriter struct {
	io.Writer
	ErrorWriter io.Writer
	InfoWriter  io.Writer
	TraceWriter io.Writer
	WarnWriter  io.Writer
}

// WriteLevel writes trace to TraceWriter, warn to WarnWriter, error and above to
// ErrorWriter and everything else to InfoWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (n int, err error) {
	var w io.Writer

	switch {
	case l == zerolog.Disabled:
		return 0, nil
	case l == zerolog.TraceLevel:
		w = lw.TraceWriter
	case l == zerolog.WarnLevel:
		w = lw.WarnWriter
	case l > zerolog.WarnLevel:
		w = lw.ErrorWriter
	default:
		w = lw.InfoWriter
	}

	if w == nil {
		return len(p), nil
	}

	return w.Write(p) //nolint:wrapcheck
}

// Init configures the global zerolog logger.
// With neither console nor file enabled, nothing is written.
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

	if logLevel == zerolog.TraceLevel {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
		stack = true
	}

	zerolog.SetGlobalLevel(logLevel)
	zerolog.ErrorHandler = ErrorHandler

	hook := NewPrometheusHook(cfg.ServiceName)

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg))
	}

	if cfg.File.Enabled {
		fileWriter, errFile := newRollingLevelFiles(cfg)
		if errFile != nil {
			return errFile
		}

		writers = append(writers, fileWriter)
	}

	zctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Hook(hook).
		With().
		Timestamp().
		Str("service", cfg.ServiceName)

	switch {
	case cfg.ReportCaller && stack:
		zctx = zctx.Stack().Caller()
	case cfg.ReportCaller:
		zctx = zctx.Caller()
	case stack:
		zctx = zctx.Stack()
	}

	log.Logger = zctx.Logger()

	return nil
}

// NewRollingFile returns a lumberjack writer for f inside dir.
func NewRollingFile(dir string, f RollingFile) io.Writer {
	return &lumberjack.Logger{
		Filename:   path.Join(dir, f.Name),
		MaxSize:    f.MaxSize,
		MaxAge:     f.MaxAge,
		MaxBackups: f.MaxBackups,
		LocalTime:  false,
		Compress:   false,
	}
}

// newRollingLevelFiles splits file logging into error, info, trace and warn files.
func newRollingLevelFiles(cfg Log) (io.Writer, error) {
	if err := os.MkdirAll(cfg.File.Path, 0o750); err != nil { //nolint: mnd
		return nil, errors.Wrapf(err, "can't create log directory %s", cfg.File.Path)
	}

	return &LevelWriter{
		ErrorWriter: NewRollingFile(cfg.File.Path, cfg.File.ErrorFile()),
		InfoWriter:  NewRollingFile(cfg.File.Path, cfg.File.InfoFile()),
		TraceWriter: NewRollingFile(cfg.File.Path, cfg.File.TraceFile()),
		WarnWriter:  NewRollingFile(cfg.File.Path, cfg.File.WarnFile()),
	}, nil
}

// NewConsoleWriter sends info and debug to stdout, everything else to stderr.
func NewConsoleWriter(cfg Log) io.Writer {
	out := func(w io.Writer) io.Writer {
		if !cfg.Console.UseConsoleWriter {
			return w
		}

		return zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    false,
			TimeFormat: zerolog.TimeFieldFormat,
		}
	}

	return &LevelWriter{
		ErrorWriter: out(os.Stderr),
		InfoWriter:  out(os.Stdout),
		TraceWriter: out(os.Stderr),
		WarnWriter:  out(os.Stderr),
	}
}
