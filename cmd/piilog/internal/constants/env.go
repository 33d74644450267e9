package constants

// Environment variables read for the database connection.
// Used in: config/config.go
const (
	EnvDBHost       = "PERSONAL_DATA_DB_HOST"
	EnvDBUsername   = "PERSONAL_DATA_DB_USERNAME"
	EnvDBPassword   = "PERSONAL_DATA_DB_PASSWORD"
	EnvDBName       = "PERSONAL_DATA_DB_NAME"
	EnvDBConnection = "PERSONAL_DATA_DB_CONNECTION"
)

// DefaultUsersTable is the table read by the row exporter.
// Used in: config/config.go, users/exporter.go
const DefaultUsersTable = "users"
