// Package database provides database connection management.
// It supports MySQL, PostgreSQL and SQLite with dialect detection from the
// connection string.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/thalib/piilog/cmd/piilog/internal/constants"
)

// DialectType represents the type of database dialect
type DialectType string

const (
	DialectPostgres DialectType = "postgres"
	DialectMySQL    DialectType = "mysql"
	DialectSQLite   DialectType = "sqlite"
)

// ErrEmptyConnectionString is returned by NewDriver for an empty connection string.
var ErrEmptyConnectionString = errors.New("connection string is empty")

// Driver defines the interface for database operations
type Driver interface {
	// Connect establishes a connection to the database
	Connect(ctx context.Context) error

	// Close closes the database connection
	Close() error

	// Exec executes a query without returning rows
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)

	// Query executes a query that returns rows
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// Ping verifies the connection to the database is still alive
	Ping(ctx context.Context) error

	// Dialect returns the database dialect type
	Dialect() DialectType

	// DB returns the underlying *sql.DB instance
	DB() *sql.DB
}

// Config holds database connection configuration
type Config struct {
	ConnectionString string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// baseDriver implements Driver on top of database/sql
type baseDriver struct {
	db      *sql.DB
	dialect DialectType
	dsn     string
	config  Config
}

// NewDriver creates a new database driver based on the connection string
func NewDriver(config Config) (Driver, error) {
	dialect, dsn, err := detectDialect(config.ConnectionString)
	if err != nil {
		return nil, err
	}

	if config.ConnMaxLifetime == 0 {
		config.ConnMaxLifetime = constants.ConnMaxLifetime
	}

	return &baseDriver{
		dialect: dialect,
		dsn:     dsn,
		config:  config,
	}, nil
}

// Connect establishes a connection to the database
func (d *baseDriver) Connect(ctx context.Context) error {
	db, err := sql.Open(string(d.dialect), d.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(d.config.MaxOpenConns)
	db.SetMaxIdleConns(d.config.MaxIdleConns)
	db.SetConnMaxLifetime(d.config.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	d.db = db
	return nil
}

// Close closes the database connection
func (d *baseDriver) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Exec executes a query without returning rows
func (d *baseDriver) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.db.ExecContext(ctx, query, args...)
}

// Query executes a query that returns rows
func (d *baseDriver) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.db.QueryContext(ctx, query, args...)
}

// Ping verifies the connection to the database is still alive
func (d *baseDriver) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Dialect returns the database dialect type
func (d *baseDriver) Dialect() DialectType {
	return d.dialect
}

// DB returns the underlying *sql.DB instance
func (d *baseDriver) DB() *sql.DB {
	return d.db
}

// detectDialect detects the database dialect from the connection string
func detectDialect(connectionString string) (DialectType, string, error) {
	if connectionString == "" {
		return "", "", ErrEmptyConnectionString
	}

	lower := strings.ToLower(connectionString)

	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DialectPostgres, connectionString, nil
	}

	if strings.HasPrefix(lower, "mysql://") {
		return DialectMySQL, connectionString[len("mysql://"):], nil
	}

	if strings.HasPrefix(lower, "sqlite://") {
		dsn := connectionString[len("sqlite://"):]
		// shared cache lets every pooled connection see the same in-memory database
		if dsn == ":memory:" {
			dsn = "file::memory:?mode=memory&cache=shared"
		}
		return DialectSQLite, dsn, nil
	}

	// Standard MySQL DSN (user:password@tcp(host:port)/database)
	if strings.Contains(lower, "@tcp(") || strings.Contains(lower, "@unix(") {
		return DialectMySQL, connectionString, nil
	}

	if lower == ":memory:" || strings.HasSuffix(lower, ".db") || strings.HasSuffix(lower, ".sqlite") || strings.HasSuffix(lower, ".sqlite3") {
		return DialectSQLite, connectionString, nil
	}

	if strings.Contains(lower, "host=") || strings.Contains(lower, "dbname=") {
		return DialectPostgres, connectionString, nil
	}

	return "", "", fmt.Errorf("unable to detect database dialect from connection string")
}

// Endpoint identifies a database server and the credentials to use.
type Endpoint struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

func (e Endpoint) address(defaultPort int) string {
	port := e.Port
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort(e.Host, strconv.Itoa(port))
}

// MySQLDSN formats a connection string for the MySQL driver.
func MySQLDSN(e Endpoint) string {
	cfg := mysql.NewConfig()
	cfg.User = e.User
	cfg.Passwd = e.Password
	cfg.Net = "tcp"
	cfg.Addr = e.address(3306)
	cfg.DBName = e.Name
	cfg.ParseTime = true
	return "mysql://" + cfg.FormatDSN()
}

// PostgresDSN formats a connection URL for the PostgreSQL driver.
func PostgresDSN(e Endpoint) string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     e.address(5432),
		Path:     "/" + e.Name,
		RawQuery: "sslmode=disable",
	}
	if e.User != "" {
		if e.Password != "" {
			u.User = url.UserPassword(e.User, e.Password)
		} else {
			u.User = url.User(e.User)
		}
	}
	return u.String()
}

// SQLiteDSN formats a connection string for a SQLite database file.
func SQLiteDSN(path string) string {
	return "sqlite://" + path
}

// ConnectionString formats the connection string for the given dialect.
func ConnectionString(dialect DialectType, e Endpoint) (string, error) {
	switch dialect {
	case DialectMySQL:
		return MySQLDSN(e), nil
	case DialectPostgres:
		return PostgresDSN(e), nil
	case DialectSQLite:
		return SQLiteDSN(e.Name), nil
	default:
		return "", fmt.Errorf("unsupported database dialect: %s", dialect)
	}
}
