package repository

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// postgres error codes worth a retry
const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// isLockError checks if an error is a transient lock error, SQLite busy or a postgres
// serialization failure or deadlock
func isLockError(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqSerializationFailure || pqErr.Code == pqDeadlockDetected
	}

	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}
