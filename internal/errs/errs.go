package errs

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	// ErrInvalidFilter marks a contradictory or out-of-range filter combination.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrNotFound marks a lookup for an id with no matching row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateLine marks a cart insert that raced the (user, book) unique
	// constraint. It is resolved internally by retrying as an update and must
	// never reach the HTTP layer.
	ErrDuplicateLine = errors.New("duplicate cart line")
	// ErrIntegrity marks a write that references a nonexistent row or breaks a
	// uniqueness constraint.
	ErrIntegrity = errors.New("integrity violation")
	// ErrStorageTimeout marks a storage call that ran past the caller deadline.
	// Safe to retry.
	ErrStorageTimeout = errors.New("storage timeout")
	// ErrStorageUnavailable marks a transient storage failure. Safe to retry.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// IsDuplicate reports whether err is a unique-constraint violation, across the
// postgres driver, gorm's translated error and the sqlite driver used in tests.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// IsForeignKey reports whether err is a referential-integrity violation.
func IsForeignKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqForeignKeyViolation
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// Storage translates a raw storage error into the service taxonomy. The raw
// error is kept in the chain for logging; handlers only match the sentinels.
func Storage(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return errors.Join(ErrStorageTimeout, err)
	case IsDuplicate(err), IsForeignKey(err):
		return errors.Join(ErrIntegrity, err)
	default:
		return err
	}
}

// HTTPStatus maps a taxonomy error to the status a handler should answer with.
// Unclassified errors map to 500 so storage detail never leaks to the caller.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidFilter):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrIntegrity):
		return http.StatusConflict
	case errors.Is(err, ErrStorageTimeout), errors.Is(err, ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
