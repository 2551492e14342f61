package audit

import (
	"context"
	"time"

	"github.com/efidev/issuetracker/internal/store"
	"github.com/efidev/issuetracker/model"
	"gorm.io/gorm"
)

// EntryRepository appends and reads the immutable audit trail. There is no
// update or delete operation: the log is write-once, read-many.
type EntryRepository interface {
	WithTx(tx *gorm.DB) EntryRepository
	Record(ctx context.Context, entry *model.AuditEntry) error
	All(ctx context.Context) ([]model.AuditEntry, error)
	ForIssue(ctx context.Context, issueID uint) ([]model.AuditEntry, error)
}

type entryRepository struct {
	db *gorm.DB
}

func (r *entryRepository) WithTx(tx *gorm.DB) EntryRepository {
	return NewEntryRepository(tx)
}

func (r *entryRepository) Record(ctx context.Context, entry *model.AuditEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	return store.Translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *entryRepository) All(ctx context.Context) ([]model.AuditEntry, error) {
	var entries []model.AuditEntry
	err := r.db.WithContext(ctx).
		Order("timestamp DESC, id DESC").
		Find(&entries).Error
	return entries, store.Translate(err)
}

func (r *entryRepository) ForIssue(ctx context.Context, issueID uint) ([]model.AuditEntry, error) {
	var entries []model.AuditEntry
	err := r.db.WithContext(ctx).
		Where("issue_id = ?", issueID).
		Order("timestamp DESC, id DESC").
		Find(&entries).Error
	return entries, store.Translate(err)
}

func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db}
}
