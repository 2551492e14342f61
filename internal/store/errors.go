package store

import (
	"errors"

	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrContention is returned when the store's lock-wait budget is
	// exhausted. The failed transaction leaves no partial state, so the
	// whole operation is safe to retry.
	ErrContention = errors.New("store busy, retry the operation")
)

// IsConflict reports whether err is a uniqueness violation.
func IsConflict(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsBusy reports whether err is a lock-wait timeout (SQLITE_BUSY or
// SQLITE_LOCKED after the busy timeout elapsed).
func IsBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}

// Translate maps driver-level faults onto the store error taxonomy.
// Conflicts stay driver errors for the caller to classify per table;
// contention becomes the retryable ErrContention. Anything else is an
// integrity fault and passes through unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if IsBusy(err) {
		return ErrContention
	}
	return err
}
