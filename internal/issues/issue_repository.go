package issues

import (
	"context"
	"errors"
	"time"

	"github.com/efidev/issuetracker/internal/audit"
	"github.com/efidev/issuetracker/internal/store"
	"github.com/efidev/issuetracker/model"
	"gorm.io/gorm"
)

// Filter restricts List to one company/department scope. Nil fields match
// everything; non-admin callers always pass their own scope.
type Filter struct {
	Company    *string
	Department *string
}

// OptionalUpdate sets or clears a nullable column. The zero value leaves
// the column untouched; Set with a nil Value clears it.
type OptionalUpdate struct {
	Set   bool
	Value *string
}

func SetTo(value string) OptionalUpdate { return OptionalUpdate{Set: true, Value: &value} }
func Clear() OptionalUpdate             { return OptionalUpdate{Set: true} }

// FieldUpdates carries candidate new values for an issue's mutable columns.
// Nil (or unset) fields are not part of the update. CreatedBy is immutable
// and has no counterpart here.
type FieldUpdates struct {
	Title       *string
	Description *string
	Company     OptionalUpdate
	Department  OptionalUpdate
	Application OptionalUpdate
	Category    *string
	Priority    *string
	Status      *string
	AssignedTo  OptionalUpdate
}

// IssueRepository performs issue CRUD. Every mutation and its audit entries
// commit in one transaction: a crash mid-operation never leaves an issue
// changed without its audit rows, or vice versa.
type IssueRepository interface {
	WithTx(tx *gorm.DB) IssueRepository
	Create(ctx context.Context, issue *model.Issue) error
	List(ctx context.Context, filter Filter) ([]model.Issue, error)
	Get(ctx context.Context, id uint) (*model.Issue, error)
	Update(ctx context.Context, id uint, actor string, updates FieldUpdates) error
	Delete(ctx context.Context, id uint, actor string) error
}

type issueRepository struct {
	db        *gorm.DB
	auditRepo audit.EntryRepository
}

func (r *issueRepository) WithTx(tx *gorm.DB) IssueRepository {
	return NewIssueRepository(tx, r.auditRepo.WithTx(tx))
}

// Create inserts the issue and records its Created audit entry in the same
// transaction. Status is forced to "Not Started" regardless of input.
func (r *issueRepository) Create(ctx context.Context, issue *model.Issue) error {
	issue.Status = model.StatusNotStarted
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(issue).Error; err != nil {
			return err
		}
		return r.auditRepo.WithTx(tx).Record(ctx, &model.AuditEntry{
			Username:  issue.CreatedBy,
			IssueID:   &issue.ID,
			Action:    model.AuditActionCreated,
			FieldName: strPtr(model.AuditFieldIssue),
			NewValue:  strPtr(issue.Title),
		})
	})
	return store.Translate(err)
}

func (r *issueRepository) List(ctx context.Context, filter Filter) ([]model.Issue, error) {
	query := r.db.WithContext(ctx).Model(&model.Issue{})
	if filter.Company != nil {
		query = query.Where("company = ?", *filter.Company)
	}
	if filter.Department != nil {
		query = query.Where("department = ?", *filter.Department)
	}
	var issues []model.Issue
	err := query.Order("created_at DESC, id DESC").Find(&issues).Error
	return issues, store.Translate(err)
}

func (r *issueRepository) Get(ctx context.Context, id uint) (*model.Issue, error) {
	var issue model.Issue
	err := r.db.WithContext(ctx).First(&issue, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrIssueNotFound
	}
	return &issue, store.Translate(err)
}

type fieldChange struct {
	name     string
	oldValue *string
	newValue *string
	column   interface{}
}

// diff collects the fields whose candidate value differs from the stored
// one. Unchanged fields are skipped so the audit log carries no noise.
func diff(current *model.Issue, updates FieldUpdates) []fieldChange {
	var changes []fieldChange

	addStr := func(name string, stored string, candidate *string) {
		if candidate != nil && *candidate != stored {
			changes = append(changes, fieldChange{name, strPtr(stored), strPtr(*candidate), *candidate})
		}
	}
	addOpt := func(name string, stored *string, candidate OptionalUpdate) {
		if !candidate.Set || strPtrEqual(stored, candidate.Value) {
			return
		}
		var column interface{}
		if candidate.Value != nil {
			column = *candidate.Value
		}
		changes = append(changes, fieldChange{name, stored, candidate.Value, column})
	}

	addStr("title", current.Title, updates.Title)
	addStr("description", current.Description, updates.Description)
	addOpt("company", current.Company, updates.Company)
	addOpt("department", current.Department, updates.Department)
	addOpt("application", current.Application, updates.Application)
	addStr("category", current.Category, updates.Category)
	addStr("priority", current.Priority, updates.Priority)
	addStr("status", current.Status, updates.Status)
	addOpt("assigned_to", current.AssignedTo, updates.AssignedTo)
	return changes
}

// Update applies the differing fields and appends one Updated audit entry
// per change. Either every differing field commits together with its audit
// rows, or none do. updated_at is refreshed only when something changed.
func (r *issueRepository) Update(ctx context.Context, id uint, actor string, updates FieldUpdates) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Issue
		if err := tx.First(&current, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrIssueNotFound
			}
			return err
		}

		changes := diff(&current, updates)
		if len(changes) == 0 {
			return nil
		}

		auditRepo := r.auditRepo.WithTx(tx)
		columns := make(map[string]interface{}, len(changes)+1)
		for _, change := range changes {
			columns[change.name] = change.column
			entry := model.AuditEntry{
				Username:  actor,
				IssueID:   &id,
				Action:    model.AuditActionUpdated,
				FieldName: strPtr(change.name),
				OldValue:  change.oldValue,
				NewValue:  change.newValue,
			}
			if err := auditRepo.Record(ctx, &entry); err != nil {
				return err
			}
		}
		columns["updated_at"] = time.Now()
		return tx.Model(&model.Issue{}).Where("id = ?", id).Updates(columns).Error
	})
	return store.Translate(err)
}

// Delete records the Deleted audit entry, then removes the issue row and its
// document metadata, atomically. Prior audit entries survive the deletion.
func (r *issueRepository) Delete(ctx context.Context, id uint, actor string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Issue
		if err := tx.First(&current, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrIssueNotFound
			}
			return err
		}

		entry := model.AuditEntry{
			Username:  actor,
			IssueID:   &id,
			Action:    model.AuditActionDeleted,
			FieldName: strPtr(model.AuditFieldIssue),
			OldValue:  strPtr(current.Title),
		}
		if err := r.auditRepo.WithTx(tx).Record(ctx, &entry); err != nil {
			return err
		}

		// Document metadata cascades here explicitly; the store declares no
		// foreign keys. Stored bytes are the document service's concern.
		if err := tx.Where("issue_id = ?", id).Delete(&model.Document{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Issue{}, id).Error
	})
	return store.Translate(err)
}

func strPtr(s string) *string { return &s }

func strPtrEqual(p, q *string) bool {
	if p == nil || q == nil {
		return p == q
	}
	return *p == *q
}

func NewIssueRepository(db *gorm.DB, auditRepo audit.EntryRepository) IssueRepository {
	return &issueRepository{db: db, auditRepo: auditRepo}
}
