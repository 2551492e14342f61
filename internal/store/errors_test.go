package store

import (
	"errors"
	"testing"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func TestIsConflict(t *testing.T) {
	unique := sqlite3.Error{
		Code:         sqlite3.ErrConstraint,
		ExtendedCode: sqlite3.ErrConstraintUnique,
	}
	assert.True(t, IsConflict(unique))
	assert.True(t, IsConflict(sqlite3.Error{
		Code:         sqlite3.ErrConstraint,
		ExtendedCode: sqlite3.ErrConstraintPrimaryKey,
	}))
	assert.False(t, IsConflict(sqlite3.Error{
		Code:         sqlite3.ErrConstraint,
		ExtendedCode: sqlite3.ErrConstraintNotNull,
	}))
	assert.False(t, IsConflict(errors.New("boom")))
	assert.False(t, IsConflict(nil))
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, Translate(nil))

	busy := sqlite3.Error{Code: sqlite3.ErrBusy}
	assert.ErrorIs(t, Translate(busy), ErrContention)
	locked := sqlite3.Error{Code: sqlite3.ErrLocked}
	assert.ErrorIs(t, Translate(locked), ErrContention)

	// Integrity faults pass through untouched.
	corrupt := sqlite3.Error{Code: sqlite3.ErrCorrupt}
	assert.Equal(t, error(corrupt), Translate(corrupt))
}
