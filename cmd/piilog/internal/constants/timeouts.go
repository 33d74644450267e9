package constants

import "time"

// Timeout and duration constants for database access.
const (
	// QueryTimeout bounds a full export of the users table.
	// Used in: config/config.go
	// Default: 30 seconds (configurable via database.query_timeout)
	QueryTimeout = 30 * time.Second

	// ConnMaxLifetime is the maximum lifetime of a pooled connection.
	// Used in: database/driver.go
	ConnMaxLifetime = 5 * time.Minute
)
