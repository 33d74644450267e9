// Package preflight prepares the filesystem paths piilog writes to before
// any logging starts.
package preflight

import (
	"errors"
	"fmt"
	"os"

	"github.com/thalib/piilog/cmd/piilog/internal/constants"
)

// DirCheck represents a directory that must exist
type DirCheck struct {
	Path      string
	FailFatal bool // If true, a failed check is returned as an error
}

// CheckResult represents the result of a preflight check
type CheckResult struct {
	Path    string
	Exists  bool
	Created bool
	Error   error
}

// EnsureDirs checks that every directory exists, creating missing ones.
// Results are returned for all checks; the first fatal failure is also
// returned as the error.
func EnsureDirs(checks []DirCheck) ([]CheckResult, error) {
	results := make([]CheckResult, 0, len(checks))
	var fatal error

	for _, check := range checks {
		result := ensureDir(check.Path)
		if result.Error != nil && check.FailFatal && fatal == nil {
			fatal = result.Error
		}
		results = append(results, result)
	}

	return results, fatal
}

func ensureDir(path string) CheckResult {
	result := CheckResult{Path: path}

	info, err := os.Stat(path)
	switch {
	case err == nil:
		result.Exists = true
		if !info.IsDir() {
			result.Error = fmt.Errorf("path exists but is not a directory: %s", path)
		}
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(path, constants.DirPermissions); err != nil {
			result.Error = fmt.Errorf("failed to create directory %s: %w", path, err)
		} else {
			result.Created = true
		}
	default:
		result.Error = fmt.Errorf("failed to check path %s: %w", path, err)
	}

	return result
}
