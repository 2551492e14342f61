package audit

import (
	"context"
	"testing"
	"time"

	"github.com/efidev/issuetracker/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) EntryRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, model.AutoMigrate(db))
	return NewEntryRepository(db)
}

func strPtr(s string) *string { return &s }

func uintPtr(v uint) *uint { return &v }

func TestRecordSetsTimestamp(t *testing.T) {
	repo := newTestRepo(t)

	entry := model.AuditEntry{Username: "admin", Action: model.AuditActionCreated}
	require.NoError(t, repo.Record(context.Background(), &entry))
	assert.False(t, entry.Timestamp.IsZero())

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entry = model.AuditEntry{Username: "admin", Action: model.AuditActionCreated, Timestamp: fixed}
	require.NoError(t, repo.Record(context.Background(), &entry))
	assert.True(t, entry.Timestamp.Equal(fixed))
}

func TestOrderingNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Two entries share a timestamp; the higher id wins the tie.
	for i, ts := range []time.Time{base, base.Add(time.Second), base.Add(time.Second)} {
		entry := model.AuditEntry{
			Timestamp: ts,
			Username:  "admin",
			IssueID:   uintPtr(1),
			Action:    model.AuditActionUpdated,
			FieldName: strPtr("status"),
			NewValue:  strPtr(string(rune('a' + i))),
		}
		require.NoError(t, repo.Record(ctx, &entry))
	}

	entries, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "c", *entries[0].NewValue)
	assert.Equal(t, "b", *entries[1].NewValue)
	assert.Equal(t, "a", *entries[2].NewValue)
}

func TestForIssueFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, issueID := range []uint{1, 2, 1} {
		entry := model.AuditEntry{
			Username: "admin",
			IssueID:  uintPtr(issueID),
			Action:   model.AuditActionUpdated,
		}
		require.NoError(t, repo.Record(ctx, &entry))
	}

	entries, err := repo.ForIssue(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
