// Package config provides configuration management for piilog.
// Values come from centralized defaults, an optional YAML file and, for the
// database block, the PERSONAL_DATA_DB_* environment variables. Environment
// variables take precedence over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"

	"github.com/spf13/viper"
	"github.com/thalib/piilog/cmd/piilog/internal/constants"
)

const (
	// VersionMajor is the major version number
	VersionMajor = 1
	// VersionMinor is the minor version number
	VersionMinor = 0
)

// Version returns the version string in format {major}.{minor}
func Version() string {
	return fmt.Sprintf("%d.%d", VersionMajor, VersionMinor)
}

// Defaults contains all default configuration values
// centralized in one place to avoid hardcoded literals
var Defaults = struct {
	Database struct {
		Connection   string
		Host         string
		Port         int
		User         string
		Password     string
		Name         string
		Table        string
		QueryTimeout int
	}
	Logging struct {
		Path    string
		File    string
		Level   string
		AppName string
	}
	ConfigPath string
}{
	Database: struct {
		Connection   string
		Host         string
		Port         int
		User         string
		Password     string
		Name         string
		Table        string
		QueryTimeout int
	}{
		Connection:   "mysql",
		Host:         "localhost",
		Port:         0, // dialect default
		User:         "root",
		Password:     "",
		Name:         "",
		Table:        constants.DefaultUsersTable,
		QueryTimeout: int(constants.QueryTimeout.Seconds()),
	},
	Logging: struct {
		Path    string
		File    string
		Level   string
		AppName string
	}{
		Path:    "/var/log/piilog",
		File:    "", // stdout only
		Level:   "info",
		AppName: constants.DefaultAppName,
	},
	ConfigPath: "/etc/piilog.conf",
}

// AppConfig holds the application configuration.
// It is designed to be immutable after initialization.
type AppConfig struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Connection   string `mapstructure:"connection"`    // database type: mysql, postgres, sqlite
	Host         string `mapstructure:"host"`          // database host
	Port         int    `mapstructure:"port"`          // database port, 0 for the dialect default
	User         string `mapstructure:"user"`          // database user
	Password     string `mapstructure:"password"`      // database password
	Name         string `mapstructure:"name"`          // database name, or file path for sqlite
	Table        string `mapstructure:"table"`         // table exported by the row exporter
	QueryTimeout int    `mapstructure:"query_timeout"` // export timeout in seconds
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Path    string `mapstructure:"path"`     // log directory path
	File    string `mapstructure:"file"`     // log file name inside Path, empty for stdout only
	Level   string `mapstructure:"level"`    // minimum level for application logs
	AppName string `mapstructure:"app_name"` // tag at the start of every log line
}

// FilePath returns the full path of the log file, or "" when file logging
// is disabled.
func (c LoggingConfig) FilePath() string {
	if c.File == "" {
		return ""
	}
	if filepath.IsAbs(c.File) {
		return c.File
	}
	return filepath.Join(c.Path, c.File)
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"database.host":       constants.EnvDBHost,
	"database.user":       constants.EnvDBUsername,
	"database.password":   constants.EnvDBPassword,
	"database.name":       constants.EnvDBName,
	"database.connection": constants.EnvDBConnection,
}

var (
	validConnections = map[string]bool{"mysql": true, "postgres": true, "sqlite": true}
	validLevels      = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	identifierRegex  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)
)

// Load reads the configuration. A missing file at the default path is not
// an error; a missing file that was asked for explicitly is.
func Load(configPath string) (*AppConfig, error) {
	v := viper.New()

	v.SetDefault("database.connection", Defaults.Database.Connection)
	v.SetDefault("database.host", Defaults.Database.Host)
	v.SetDefault("database.port", Defaults.Database.Port)
	v.SetDefault("database.user", Defaults.Database.User)
	v.SetDefault("database.password", Defaults.Database.Password)
	v.SetDefault("database.name", Defaults.Database.Name)
	v.SetDefault("database.table", Defaults.Database.Table)
	v.SetDefault("database.query_timeout", Defaults.Database.QueryTimeout)
	v.SetDefault("logging.path", Defaults.Logging.Path)
	v.SetDefault("logging.file", Defaults.Logging.File)
	v.SetDefault("logging.level", Defaults.Logging.Level)
	v.SetDefault("logging.app_name", Defaults.Logging.AppName)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(Defaults.ConfigPath)
	}

	if err := v.ReadInConfig(); err != nil {
		if configPath != "" {
			if isNotFound(err) {
				return nil, fmt.Errorf("config file not found: %s", configPath)
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if !isNotFound(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// isNotFound reports whether err means the config file does not exist.
// viper returns ConfigFileNotFoundError only when searching config paths; an
// explicit SetConfigFile surfaces the underlying fs error instead.
func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return true
	}
	return errors.Is(err, fs.ErrNotExist)
}

// validate applies defaults to empty values and rejects invalid ones.
func validate(cfg *AppConfig) error {
	if cfg.Database.Connection == "" {
		cfg.Database.Connection = Defaults.Database.Connection
	}
	if !validConnections[cfg.Database.Connection] {
		return fmt.Errorf("invalid database connection %q, must be one of: mysql, postgres, sqlite", cfg.Database.Connection)
	}
	if cfg.Database.Port < 0 || cfg.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", cfg.Database.Port)
	}
	if cfg.Database.Table == "" {
		cfg.Database.Table = Defaults.Database.Table
	}
	if !identifierRegex.MatchString(cfg.Database.Table) {
		return fmt.Errorf("invalid database table name: %q", cfg.Database.Table)
	}
	if cfg.Database.QueryTimeout <= 0 {
		cfg.Database.QueryTimeout = Defaults.Database.QueryTimeout
	}

	if cfg.Logging.Path == "" {
		cfg.Logging.Path = Defaults.Logging.Path
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = Defaults.Logging.Level
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level %q, must be one of: debug, info, warn, error", cfg.Logging.Level)
	}
	if cfg.Logging.AppName == "" {
		cfg.Logging.AppName = Defaults.Logging.AppName
	}

	return nil
}
