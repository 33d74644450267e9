package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedNow() time.Time { return fixedTime }

func TestNewLogger(t *testing.T) {
	t.Run("Default config", func(t *testing.T) {
		logger := NewLogger(LoggerConfig{})

		if logger == nil {
			t.Fatal("NewLogger returned nil")
		}

		if logger.config.Level != LevelInfo {
			t.Errorf("Expected default level info, got %s", logger.config.Level)
		}
		if logger.config.AppName != "HOLBERTON" {
			t.Errorf("Expected default app name HOLBERTON, got %s", logger.config.AppName)
		}
	})

	t.Run("Custom config", func(t *testing.T) {
		logger := NewLogger(LoggerConfig{
			Name:    "custom",
			Level:   LevelDebug,
			AppName: "TEST",
		})

		if logger.config.Level != LevelDebug {
			t.Errorf("Expected level debug, got %s", logger.config.Level)
		}
		if logger.Name() != "custom" {
			t.Errorf("Expected name custom, got %s", logger.Name())
		}
	})
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(LoggerConfig{
		Name:   "my_logger",
		Output: &buf,
		Now:    fixedNow,
	})

	logger.Info("Test message")

	want := "[HOLBERTON] my_logger INFO 2026-10-14 10:00:00,123: Test message\n"
	if buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(LoggerConfig{
		Name:   "lvl",
		Level:  LevelWarn,
		Output: &buf,
		Now:    fixedNow,
	})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warnf("warn %d", 1)
	logger.Errorf("error %d", 2)

	output := buf.String()
	if strings.Contains(output, "debug message") || strings.Contains(output, "info message") {
		t.Errorf("Messages below warn should be filtered, got %q", output)
	}
	if !strings.Contains(output, "lvl WARNING ") || !strings.Contains(output, ": warn 1\n") {
		t.Errorf("Expected warning line, got %q", output)
	}
	if !strings.Contains(output, "lvl ERROR ") || !strings.Contains(output, ": error 2\n") {
		t.Errorf("Expected error line, got %q", output)
	}
}

func TestLogger_ErrorWithErr(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(LoggerConfig{Name: "e", Output: &buf, Now: fixedNow})
	logger.ErrorWithErr("Query failed", errors.New("connection refused"))

	if !strings.HasSuffix(buf.String(), ": Query failed: connection refused\n") {
		t.Errorf("Unexpected output %q", buf.String())
	}
}

func TestNewUserDataLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := NewUserDataLogger(LoggerConfig{
		Name:   "ignored",
		Level:  LevelError,
		Output: &buf,
		Now:    fixedNow,
	})

	if logger.Name() != "user_data" {
		t.Errorf("Expected logger name user_data, got %s", logger.Name())
	}
	if logger.config.Level != LevelInfo {
		t.Errorf("Expected level info, got %s", logger.config.Level)
	}

	logger.Info("name=Bob; email=bob@dylan.com; phone=555-0100; ssn=000-123-0000; password=bobby2019; ip=10.0.0.1;")

	want := "[HOLBERTON] user_data INFO 2026-10-14 10:00:00,123: name=***; email=***; phone=***; ssn=***; password=***; ip=10.0.0.1;\n"
	if buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}
}

func TestNewUserDataLogger_DefaultsToStderr(t *testing.T) {
	logger := NewUserDataLogger(LoggerConfig{})

	if logger.config.Output != os.Stderr {
		t.Errorf("Expected default output to be stderr, got %v", logger.config.Output)
	}
}

func TestNewUserDataLogger_FormattedMessage(t *testing.T) {
	var buf bytes.Buffer

	logger := NewUserDataLogger(LoggerConfig{Output: &buf, Now: fixedNow})
	logger.Infof("email=%s;user_agent=%s;", "bob@dylan.com", "curl/8.0")

	if strings.Contains(buf.String(), "bob@dylan.com") {
		t.Errorf("Interpolated PII leaked: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "email=***;user_agent=curl/8.0;") {
		t.Errorf("Unexpected output %q", buf.String())
	}
}

func TestLogger_FileOutput(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "user_data.log")

	logger := NewUserDataLogger(LoggerConfig{
		Output:   &buf,
		FilePath: path,
		Now:      fixedNow,
	})
	logger.Info("ssn=123-45-6789;")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	if string(data) != buf.String() {
		t.Errorf("File and console output differ:\nfile:    %q\nconsole: %q", data, buf.String())
	}
	if !strings.Contains(string(data), "ssn=***;") {
		t.Errorf("Expected redacted ssn in file, got %q", data)
	}
}

func TestFormatWriter_InvalidEntry(t *testing.T) {
	var buf bytes.Buffer
	w := &formatWriter{formatter: &TextFormatter{}, out: &buf}

	if _, err := w.Write([]byte("not json")); err == nil {
		t.Error("Expected error for non-JSON entry")
	}
	if buf.Len() != 0 {
		t.Errorf("Nothing should be written on decode failure, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
