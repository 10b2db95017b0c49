package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a printf-style facade over zerolog. Every layer of the service depends on
// its own narrow Logger interface, which *Logger satisfies.
type Logger struct {
	zl   zerolog.Logger
	file *os.File
}

// Options tunes the output format.
type Options struct {
	// Pretty switches stdout to zerolog's human readable console writer.
	Pretty bool
}

// New creates a logger writing JSON to stdout and, when filePath is set, appending to that file.
// Unknown levels fall back to info.
func New(filePath, level string, opts ...Options) (*Logger, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	var stdout io.Writer = os.Stdout
	if o.Pretty {
		stdout = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	writers := []io.Writer{stdout}

	var file *os.File
	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", filePath, err)
		}
		file = f
		writers = append(writers, f)
	}

	l := NewWithWriter(zerolog.MultiLevelWriter(writers...), level)
	l.file = file
	return l, nil
}

// NewWithWriter creates a logger over an arbitrary writer. Used by tests and by New.
func NewWithWriter(w io.Writer, level string) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return &Logger{
		zl: zerolog.New(w).Level(lvl).With().Timestamp().Logger(),
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.zl.Debug().Msgf(format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.zl.Warn().Msgf(format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.zl.Error().Msgf(format, v...)
}

// Fatal logs and exits the process with status 1.
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.zl.Fatal().Msgf(format, v...)
}

// With returns a child logger carrying an extra string field, e.g. a request id.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, value).Logger()}
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	if err := l.file.Sync(); err != nil {
		return err
	}
	return l.file.Close()
}
