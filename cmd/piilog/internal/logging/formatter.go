package logging

import (
	"fmt"
	"strings"
	"time"

	"github.com/thalib/piilog/cmd/piilog/internal/constants"
	"github.com/thalib/piilog/cmd/piilog/internal/redact"
)

// Record is a single log entry as handed to a Formatter.
type Record struct {
	Name    string
	Level   Level
	Time    time.Time
	Message string
}

// Formatter renders a Record into one line of text.
type Formatter interface {
	Format(rec *Record) ([]byte, error)
}

// TextFormatter renders records as:
// [APPNAME] <name> <LEVEL> <timestamp>: <message>
type TextFormatter struct {
	AppName string
}

// Format implements Formatter.
func (f *TextFormatter) Format(rec *Record) ([]byte, error) {
	appName := f.AppName
	if appName == "" {
		appName = constants.DefaultAppName
	}

	line := fmt.Sprintf("[%s] %s %s %-*s: %s\n",
		appName,
		rec.Name,
		levelName(rec.Level),
		constants.LogTimeWidth,
		rec.Time.Format(constants.LogTimeLayout),
		rec.Message,
	)
	return []byte(line), nil
}

// levelName returns the upper-case label printed for a level.
func levelName(level Level) string {
	if level == LevelWarn {
		return "WARNING"
	}
	return strings.ToUpper(string(level))
}

// RedactingFormatter obfuscates PII fields in the record message before
// delegating to the wrapped formatter.
type RedactingFormatter struct {
	redactor *redact.Redactor
	base     Formatter
}

// NewRedactingFormatter wraps base so that every message has the values of
// fields replaced by the redaction marker. A nil base uses a TextFormatter
// with the default app name.
func NewRedactingFormatter(base Formatter, fields []string) *RedactingFormatter {
	if base == nil {
		base = &TextFormatter{AppName: constants.DefaultAppName}
	}
	return &RedactingFormatter{
		redactor: redact.New(fields, constants.RedactionMarker, constants.FieldSeparator),
		base:     base,
	}
}

// Format rewrites rec.Message with its redacted form and then renders the
// record with the wrapped formatter. The record is modified in place.
func (f *RedactingFormatter) Format(rec *Record) ([]byte, error) {
	rec.Message = f.redactor.Redact(rec.Message)
	return f.base.Format(rec)
}
