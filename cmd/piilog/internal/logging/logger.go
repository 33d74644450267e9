// Package logging provides structured logging with zerolog.
// Entries are rendered as single text lines by a pluggable Formatter, and the
// user data logger redacts PII fields from every message before it reaches
// the sink.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/thalib/piilog/cmd/piilog/internal/constants"
)

// Level represents logging levels
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

const (
	loggerFieldName = "logger"
	timeFieldName   = "ts"
)

// ParseLevel converts a level name into a Level.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return Level(s), nil
	case "warning":
		return LevelWarn, nil
	}
	return "", fmt.Errorf("unknown log level: %q", s)
}

func (l Level) zerologLevel() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	// Name is the logger name printed on every line
	Name string

	// Level is the minimum log level (debug, info, warn, error)
	Level Level

	// AppName is the tag at the start of every line
	AppName string

	// Output is the writer for logs (default: os.Stdout)
	Output io.Writer

	// FilePath is an additional log file. Lines are written to both
	// Output and the file.
	FilePath string

	// Formatter renders records (default: TextFormatter with AppName)
	Formatter Formatter

	// Now returns the record timestamp (default: time.Now)
	Now func() time.Time
}

// Logger wraps zerolog and renders each entry through a Formatter.
type Logger struct {
	logger zerolog.Logger
	config LoggerConfig
	file   *os.File
}

// NewLogger creates a new logger. If the log file cannot be opened the
// logger falls back to Output alone and reports the problem on stderr.
func NewLogger(config LoggerConfig) *Logger {
	if config.Level == "" {
		config.Level = LevelInfo
	}
	if config.AppName == "" {
		config.AppName = constants.DefaultAppName
	}
	if config.Formatter == nil {
		config.Formatter = &TextFormatter{AppName: config.AppName}
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	output := config.Output
	if output == nil {
		output = os.Stdout
	}

	var file *os.File
	if config.FilePath != "" {
		f, err := openLogFile(config.FilePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", config.FilePath, err)
		} else {
			file = f
			output = io.MultiWriter(output, f)
		}
	}

	w := &formatWriter{formatter: config.Formatter, out: output}
	logger := zerolog.New(w).
		Level(config.Level.zerologLevel()).
		Hook(timestampHook{now: config.Now}).
		With().Str(loggerFieldName, config.Name).Logger()

	return &Logger{
		logger: logger,
		config: config,
		file:   file,
	}
}

// NewUserDataLogger returns the logger used for user records: named
// "user_data", level INFO, with the PII fields redacted from every message.
// Name, Level and Formatter in config are overridden, and a nil Output
// writes to stderr.
func NewUserDataLogger(config LoggerConfig) *Logger {
	config.Name = constants.UserDataLoggerName
	config.Level = LevelInfo
	if config.Output == nil {
		config.Output = os.Stderr
	}
	appName := config.AppName
	if appName == "" {
		appName = constants.DefaultAppName
	}
	config.Formatter = NewRedactingFormatter(&TextFormatter{AppName: appName}, constants.PIIFields)
	return NewLogger(config)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, constants.FilePermissions)
}

// Name returns the logger name
func (l *Logger) Name() string {
	return l.config.Name
}

// Close closes the log file, if one was opened.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...any) {
	l.logger.Debug().Msgf(format, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...any) {
	l.logger.Info().Msgf(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) {
	l.logger.Warn().Msg(msg)
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...any) {
	l.logger.Warn().Msgf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string) {
	l.logger.Error().Msg(msg)
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...any) {
	l.logger.Error().Msgf(format, args...)
}

// ErrorWithErr logs an error message followed by the error text
func (l *Logger) ErrorWithErr(msg string, err error) {
	l.logger.Error().Msgf("%s: %v", msg, err)
}

// timestampHook stamps every event with a nanosecond precision time. The
// zerolog Timestamp helper is bound to the package-wide TimeFieldFormat,
// which is left alone here.
type timestampHook struct {
	now func() time.Time
}

func (h timestampHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str(timeFieldName, h.now().Format(time.RFC3339Nano))
}

// formatWriter decodes the JSON entries written by zerolog and renders them
// through a Formatter.
type formatWriter struct {
	formatter Formatter
	out       io.Writer
}

type jsonEntry struct {
	Level   string `json:"level"`
	Time    string `json:"ts"`
	Message string `json:"message"`
	Logger  string `json:"logger"`
}

func (w *formatWriter) Write(p []byte) (int, error) {
	var entry jsonEntry
	if err := json.Unmarshal(p, &entry); err != nil {
		return 0, fmt.Errorf("failed to decode log entry: %w", err)
	}

	rec := &Record{
		Name:    entry.Logger,
		Level:   Level(entry.Level),
		Message: entry.Message,
	}
	if entry.Time != "" {
		t, err := time.Parse(time.RFC3339Nano, entry.Time)
		if err != nil {
			return 0, fmt.Errorf("failed to parse log timestamp: %w", err)
		}
		rec.Time = t
	}

	line, err := w.formatter.Format(rec)
	if err != nil {
		return 0, err
	}
	if _, err := w.out.Write(line); err != nil {
		return 0, err
	}
	return len(p), nil
}
