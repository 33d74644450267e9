// Package users exports the rows of the users table through the redacting
// user data logger, one log line per row.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/thalib/piilog/cmd/piilog/internal/constants"
	"github.com/thalib/piilog/cmd/piilog/internal/database"
	"github.com/thalib/piilog/cmd/piilog/internal/logging"
)

// ErrInvalidTable is returned when the table name is not a plain identifier.
var ErrInvalidTable = errors.New("invalid table name")

var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// Exporter logs every row of a table.
type Exporter struct {
	db     database.Driver
	logger *logging.Logger
	table  string
}

// NewExporter creates an exporter for table. An empty table name selects
// the default users table.
func NewExporter(db database.Driver, logger *logging.Logger, table string) *Exporter {
	if table == "" {
		table = constants.DefaultUsersTable
	}
	return &Exporter{db: db, logger: logger, table: table}
}

// Export reads all rows and logs each one at INFO level. It returns the
// number of rows logged. Rows logged before an error are not rolled back.
func (e *Exporter) Export(ctx context.Context) (int, error) {
	if !identifierRegex.MatchString(e.table) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTable, e.table)
	}

	rows, err := e.db.Query(ctx, fmt.Sprintf("SELECT * FROM %s", e.table))
	if err != nil {
		return 0, fmt.Errorf("failed to query %s: %w", e.table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return 0, fmt.Errorf("failed to read columns: %w", err)
	}

	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	count := 0
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return count, fmt.Errorf("failed to scan row: %w", err)
		}
		e.logger.Info(FormatRow(columns, values))
		count++
	}
	if err := rows.Err(); err != nil {
		return count, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return count, nil
}

// FormatRow renders a row as "col1=v1; col2=v2;". NULL values render empty.
func FormatRow(columns []string, values []sql.NullString) string {
	var b strings.Builder
	for i, col := range columns {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(col)
		b.WriteByte('=')
		if i < len(values) && values[i].Valid {
			b.WriteString(values[i].String)
		}
		b.WriteString(constants.FieldSeparator)
	}
	return b.String()
}
