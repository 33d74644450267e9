package constants

// Log line layout constants.
const (
	// DefaultAppName is the tag written at the start of every log line.
	// Used in: logging/formatter.go, config/config.go
	DefaultAppName = "HOLBERTON"

	// UserDataLoggerName is the logger name used when exporting user rows.
	// Used in: logging/logger.go
	UserDataLoggerName = "user_data"

	// LogTimeLayout renders the record timestamp, millisecond precision
	// separated by a comma.
	// Used in: logging/formatter.go
	LogTimeLayout = "2006-01-02 15:04:05,000"

	// LogTimeWidth is the minimum width of the timestamp column.
	// Shorter timestamps are right padded with spaces.
	// Used in: logging/formatter.go
	LogTimeWidth = 15
)
