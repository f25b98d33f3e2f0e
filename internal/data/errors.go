package data

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Shared sentinel errors for data-layer repositories.
var (
	// ErrCheckNotFound is returned when a check record does not exist.
	ErrCheckNotFound = errors.New("check not found")
	// ErrCheckIDRequired is returned when an operation is missing the check id.
	ErrCheckIDRequired = errors.New("check id is required")
	// ErrArtifactNotFound is returned when an archived artifact does not exist.
	ErrArtifactNotFound = errors.New("artifact not found")
)

// IsRetryableTxError reports whether the error is a transient transaction
// conflict (serialization failure or deadlock) that the transport may safely
// redeliver against.
func IsRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.SerializationFailure ||
		pgErr.Code == pgerrcode.DeadlockDetected ||
		pgErr.Code == pgerrcode.LockNotAvailable
}

// IsConstraintViolation reports whether the error is an integrity constraint
// violation (bad reference, duplicate key).
func IsConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgerrcode.IsIntegrityConstraintViolation(pgErr.Code)
}
