package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "piilog.conf")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Database.Connection != "mysql" {
		t.Errorf("Expected default connection mysql, got %s", cfg.Database.Connection)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Expected default host localhost, got %s", cfg.Database.Host)
	}
	if cfg.Database.User != "root" {
		t.Errorf("Expected default user root, got %s", cfg.Database.User)
	}
	if cfg.Database.Table != "users" {
		t.Errorf("Expected default table users, got %s", cfg.Database.Table)
	}
	if cfg.Database.QueryTimeout != 30 {
		t.Errorf("Expected default query timeout 30, got %d", cfg.Database.QueryTimeout)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected default level info, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.AppName != "HOLBERTON" {
		t.Errorf("Expected default app name HOLBERTON, got %s", cfg.Logging.AppName)
	}
	if cfg.Logging.FilePath() != "" {
		t.Errorf("Expected file logging disabled by default, got %s", cfg.Logging.FilePath())
	}
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
database:
  connection: postgres
  host: db.internal
  port: 5433
  user: reader
  password: s3cret
  name: my_db
  table: customers
  query_timeout: 10
logging:
  path: /tmp/piilog
  file: user_data.log
  level: debug
  app_name: ACME
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Database.Connection != "postgres" || cfg.Database.Host != "db.internal" || cfg.Database.Port != 5433 {
		t.Errorf("Unexpected database config: %+v", cfg.Database)
	}
	if cfg.Database.User != "reader" || cfg.Database.Password != "s3cret" || cfg.Database.Name != "my_db" {
		t.Errorf("Unexpected database credentials: %+v", cfg.Database)
	}
	if cfg.Database.Table != "customers" || cfg.Database.QueryTimeout != 10 {
		t.Errorf("Unexpected table/timeout: %+v", cfg.Database)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.AppName != "ACME" {
		t.Errorf("Unexpected logging config: %+v", cfg.Logging)
	}
	if got := cfg.Logging.FilePath(); got != filepath.Join("/tmp/piilog", "user_data.log") {
		t.Errorf("Unexpected log file path %s", got)
	}
}

// TestLoad_EnvOverridesFile verifies PERSONAL_DATA_DB_* take precedence.
func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PERSONAL_DATA_DB_HOST", "env-host")
	t.Setenv("PERSONAL_DATA_DB_USERNAME", "env-user")
	t.Setenv("PERSONAL_DATA_DB_PASSWORD", "env-pass")
	t.Setenv("PERSONAL_DATA_DB_NAME", "holberton")

	path := writeConfig(t, `
database:
  host: file-host
  user: file-user
  name: file-db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Database.Host != "env-host" {
		t.Errorf("Expected host from env, got %s", cfg.Database.Host)
	}
	if cfg.Database.User != "env-user" {
		t.Errorf("Expected user from env, got %s", cfg.Database.User)
	}
	if cfg.Database.Password != "env-pass" {
		t.Errorf("Expected password from env, got %s", cfg.Database.Password)
	}
	if cfg.Database.Name != "holberton" {
		t.Errorf("Expected name from env, got %s", cfg.Database.Name)
	}
}

func TestLoad_EnvConnection(t *testing.T) {
	clearEnv(t)
	t.Setenv("PERSONAL_DATA_DB_CONNECTION", "sqlite")
	t.Setenv("PERSONAL_DATA_DB_NAME", "/tmp/users.db")

	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Database.Connection != "sqlite" || cfg.Database.Name != "/tmp/users.db" {
		t.Errorf("Unexpected database config: %+v", cfg.Database)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.conf"))
	if err == nil {
		t.Fatal("Expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "database: [unclosed"))
	if err == nil {
		t.Fatal("Expected error for invalid YAML")
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{
			name:    "unknown connection",
			content: "database:\n  connection: oracle\n",
			errPart: "invalid database connection",
		},
		{
			name:    "bad port",
			content: "database:\n  port: 70000\n",
			errPart: "invalid database port",
		},
		{
			name:    "bad table name",
			content: "database:\n  table: \"users; DROP TABLE users\"\n",
			errPart: "invalid database table name",
		},
		{
			name:    "bad level",
			content: "logging:\n  level: verbose\n",
			errPart: "invalid logging level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("Expected error containing %q, got %v", tt.errPart, err)
			}
		})
	}
}

func TestLoggingConfig_FilePath(t *testing.T) {
	tests := []struct {
		name string
		cfg  LoggingConfig
		want string
	}{
		{"disabled", LoggingConfig{Path: "/var/log/piilog"}, ""},
		{"relative", LoggingConfig{Path: "/var/log/piilog", File: "main.log"}, "/var/log/piilog/main.log"},
		{"absolute", LoggingConfig{Path: "/var/log/piilog", File: "/srv/logs/main.log"}, "/srv/logs/main.log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.FilePath(); got != tt.want {
				t.Errorf("FilePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	if Version() != "1.0" {
		t.Errorf("Expected version 1.0, got %s", Version())
	}
}
