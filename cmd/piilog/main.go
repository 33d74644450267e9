package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/thalib/piilog/cmd/piilog/internal/config"
	"github.com/thalib/piilog/cmd/piilog/internal/constants"
	"github.com/thalib/piilog/cmd/piilog/internal/database"
	"github.com/thalib/piilog/cmd/piilog/internal/logging"
	"github.com/thalib/piilog/cmd/piilog/internal/password"
	"github.com/thalib/piilog/cmd/piilog/internal/preflight"
	"github.com/thalib/piilog/cmd/piilog/internal/ulid"
	"github.com/thalib/piilog/cmd/piilog/internal/users"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: /etc/piilog.conf)")
	level := flag.String("level", "", "application log level: debug, info, warn, error")
	hashPassword := flag.String("hash", "", "print the bcrypt digest of the given password and exit")
	verifyDigest := flag.String("verify", "", "verify -password against the given bcrypt digest and exit")
	plain := flag.String("password", "", "password checked by -verify")
	flag.Parse()

	if *hashPassword != "" {
		os.Exit(runHash(*hashPassword))
	}
	if *verifyDigest != "" {
		os.Exit(runVerify(*verifyDigest, *plain))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *level != "" {
		if _, err := logging.ParseLevel(*level); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid -level: %v\n", err)
			os.Exit(1)
		}
		cfg.Logging.Level = *level
	}

	if err := runPreflightChecks(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Preflight checks failed: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(1)
	}
}

// run exports the users table through the user data logger.
func run(cfg *config.AppConfig) error {
	lvl, _ := logging.ParseLevel(cfg.Logging.Level)
	appLog := logging.NewLogger(logging.LoggerConfig{
		Name:      "piilog",
		Level:     lvl,
		AppName:   cfg.Logging.AppName,
		Output:    os.Stderr,
		Formatter: logging.NewRedactingFormatter(&logging.TextFormatter{AppName: cfg.Logging.AppName}, constants.PIIFields),
	})

	userLog := logging.NewUserDataLogger(logging.LoggerConfig{
		AppName:  cfg.Logging.AppName,
		Output:   os.Stderr,
		FilePath: cfg.Logging.FilePath(),
	})
	defer userLog.Close()

	runID, err := newRunID()
	if err != nil {
		return err
	}
	appLog.Infof("Starting export run %s (version %s)", runID, config.Version())

	connStr, err := database.ConnectionString(database.DialectType(cfg.Database.Connection), database.Endpoint{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
	})
	if err != nil {
		return err
	}

	driver, err := database.NewDriver(database.Config{
		ConnectionString: connStr,
		MaxOpenConns:     1,
		MaxIdleConns:     1,
	})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := driver.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer driver.Close()

	appLog.Debugf("Connected to %s database at %s", driver.Dialect(), cfg.Database.Host)

	count, err := users.NewExporter(driver, userLog, cfg.Database.Table).Export(ctx)
	if err != nil {
		appLog.ErrorWithErr(fmt.Sprintf("Export run %s stopped after %d rows", runID, count), err)
		return err
	}

	appLog.Infof("Export run %s finished: %d rows", runID, count)
	return nil
}

// newRunID returns the identifier logged at the start and end of an export run.
func newRunID() (string, error) {
	id := ulid.Generate()
	if err := ulid.Validate(id); err != nil {
		return "", fmt.Errorf("failed to generate run ID: %w", err)
	}
	return id, nil
}

// runPreflightChecks makes sure the log directory exists when file logging is on.
func runPreflightChecks(cfg *config.AppConfig) error {
	if cfg.Logging.FilePath() == "" {
		return nil
	}

	results, err := preflight.EnsureDirs([]preflight.DirCheck{
		{Path: filepath.Dir(cfg.Logging.FilePath()), FailFatal: true},
	})
	for _, result := range results {
		if result.Created {
			fmt.Printf("✓ Created: %s\n", result.Path)
		}
		if result.Error != nil {
			fmt.Fprintf(os.Stderr, "✗ Error with %s: %v\n", result.Path, result.Error)
		}
	}
	return err
}

func runHash(plain string) int {
	digest, err := password.Hash(plain)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash password: %v\n", err)
		return 1
	}
	fmt.Println(string(digest))
	return 0
}

func runVerify(digest, plain string) int {
	ok, err := password.Verify([]byte(digest), plain)
	if errors.Is(err, password.ErrInvalidCredentialFormat) {
		fmt.Fprintf(os.Stderr, "Malformed credential record: %v\n", err)
		return 2
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to verify password: %v\n", err)
		return 1
	}
	if !ok {
		fmt.Println("invalid")
		return 1
	}
	fmt.Println("valid")
	return 0
}
