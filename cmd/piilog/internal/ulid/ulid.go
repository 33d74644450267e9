// Package ulid generates the identifiers attached to every export run.
// ULIDs sort by creation time, so run identifiers in a log file are ordered.
package ulid

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	// ErrInvalidULID indicates that a ULID string is malformed or invalid
	ErrInvalidULID = errors.New("invalid ULID format")
)

// Generate creates a new ULID using the current timestamp and secure random data
func Generate() string {
	return GenerateWithTime(time.Now())
}

// GenerateWithTime creates a new ULID using the specified timestamp and secure random data
func GenerateWithTime(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}

// Validate checks if a string is a valid ULID
func Validate(str string) error {
	if len(str) != ulid.EncodedSize {
		return fmt.Errorf("%w: expected %d characters, got %d", ErrInvalidULID, ulid.EncodedSize, len(str))
	}
	if _, err := ulid.ParseStrict(str); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidULID, err)
	}
	return nil
}
