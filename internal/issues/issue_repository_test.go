package issues

import (
	"context"
	"testing"
	"time"

	"github.com/efidev/issuetracker/internal/audit"
	"github.com/efidev/issuetracker/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, model.AutoMigrate(db))
	return db
}

func newTestRepo(t *testing.T) (IssueRepository, audit.EntryRepository, *gorm.DB) {
	db := newTestDB(t)
	auditRepo := audit.NewEntryRepository(db)
	return NewIssueRepository(db, auditRepo), auditRepo, db
}

func seedIssue(t *testing.T, repo IssueRepository, issue *model.Issue) *model.Issue {
	t.Helper()
	if issue.Category == "" {
		issue.Category = "Software"
	}
	if issue.Priority == "" {
		issue.Priority = "Medium"
	}
	if issue.CreatedBy == "" {
		issue.CreatedBy = "admin"
	}
	require.NoError(t, repo.Create(context.Background(), issue))
	return issue
}

func TestCreateForcesNotStartedStatus(t *testing.T) {
	repo, _, _ := newTestRepo(t)

	issue := &model.Issue{Title: "VPN down", Description: "VPN is unreachable", Status: model.StatusResolved}
	seedIssue(t, repo, issue)

	stored, err := repo.Get(context.Background(), issue.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNotStarted, stored.Status)
}

func TestCreateRecordsAuditEntry(t *testing.T) {
	repo, auditRepo, _ := newTestRepo(t)

	issue := seedIssue(t, repo, &model.Issue{Title: "VPN down", Description: "VPN is unreachable", CreatedBy: "hod1"})

	entries, err := auditRepo.ForIssue(context.Background(), issue.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.AuditActionCreated, entries[0].Action)
	assert.Equal(t, "hod1", entries[0].Username)
	assert.Equal(t, model.AuditFieldIssue, *entries[0].FieldName)
	assert.Equal(t, "VPN down", *entries[0].NewValue)
	assert.Nil(t, entries[0].OldValue)
}

func TestUpdateNoChangesRecordsNothing(t *testing.T) {
	repo, auditRepo, _ := newTestRepo(t)
	issue := seedIssue(t, repo, &model.Issue{Title: "VPN down", Description: "VPN is unreachable"})

	before, err := repo.Get(context.Background(), issue.ID)
	require.NoError(t, err)

	title := issue.Title
	err = repo.Update(context.Background(), issue.ID, "admin", FieldUpdates{Title: &title})
	require.NoError(t, err)

	entries, err := auditRepo.ForIssue(context.Background(), issue.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1) // only the Created entry

	after, err := repo.Get(context.Background(), issue.ID)
	require.NoError(t, err)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
}

func TestUpdateRecordsOneEntryPerChangedField(t *testing.T) {
	repo, auditRepo, _ := newTestRepo(t)
	issue := seedIssue(t, repo, &model.Issue{Title: "VPN down", Description: "VPN is unreachable", Priority: "Low"})

	priority := "Critical"
	status := model.StatusInProgress
	err := repo.Update(context.Background(), issue.ID, "admin", FieldUpdates{
		Priority: &priority,
		Status:   &status,
	})
	require.NoError(t, err)

	entries, err := auditRepo.ForIssue(context.Background(), issue.ID)
	require.NoError(t, err)

	var updated []model.AuditEntry
	for _, entry := range entries {
		if entry.Action == model.AuditActionUpdated {
			updated = append(updated, entry)
		}
	}
	require.Len(t, updated, 2)

	byField := make(map[string]model.AuditEntry)
	for _, entry := range updated {
		byField[*entry.FieldName] = entry
	}
	require.Contains(t, byField, "priority")
	require.Contains(t, byField, "status")
	assert.Equal(t, "Low", *byField["priority"].OldValue)
	assert.Equal(t, "Critical", *byField["priority"].NewValue)
	assert.Equal(t, model.StatusNotStarted, *byField["status"].OldValue)
	assert.Equal(t, model.StatusInProgress, *byField["status"].NewValue)

	stored, err := repo.Get(context.Background(), issue.ID)
	require.NoError(t, err)
	assert.Equal(t, "Critical", stored.Priority)
	assert.Equal(t, model.StatusInProgress, stored.Status)
}

func TestUpdateClearsNullableField(t *testing.T) {
	repo, auditRepo, _ := newTestRepo(t)
	company := "Acme"
	issue := seedIssue(t, repo, &model.Issue{Title: "VPN down", Description: "d", Company: &company})

	err := repo.Update(context.Background(), issue.ID, "admin", FieldUpdates{Company: Clear()})
	require.NoError(t, err)

	stored, err := repo.Get(context.Background(), issue.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Company)

	entries, err := auditRepo.ForIssue(context.Background(), issue.ID)
	require.NoError(t, err)
	var found bool
	for _, entry := range entries {
		if entry.Action == model.AuditActionUpdated && *entry.FieldName == "company" {
			found = true
			assert.Equal(t, "Acme", *entry.OldValue)
			assert.Nil(t, entry.NewValue)
		}
	}
	assert.True(t, found)
}

func TestUpdateUnsetOptionalLeavesValue(t *testing.T) {
	repo, _, _ := newTestRepo(t)
	company := "Acme"
	issue := seedIssue(t, repo, &model.Issue{Title: "VPN down", Description: "d", Company: &company})

	priority := "High"
	err := repo.Update(context.Background(), issue.ID, "admin", FieldUpdates{Priority: &priority})
	require.NoError(t, err)

	stored, err := repo.Get(context.Background(), issue.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Company)
	assert.Equal(t, "Acme", *stored.Company)
}

func TestUpdateMissingIssue(t *testing.T) {
	repo, _, _ := newTestRepo(t)
	title := "x"
	err := repo.Update(context.Background(), 999, "admin", FieldUpdates{Title: &title})
	assert.ErrorIs(t, err, ErrIssueNotFound)
}

func TestDeleteKeepsAuditTrailAndCascadesDocuments(t *testing.T) {
	repo, auditRepo, db := newTestRepo(t)
	issue := seedIssue(t, repo, &model.Issue{Title: "VPN down", Description: "d"})

	doc := model.Document{
		IssueID:          issue.ID,
		Filename:         "abc123.pdf",
		OriginalFilename: "report.pdf",
		FileSize:         42,
		UploadedBy:       "admin",
		UploadedAt:       time.Now(),
	}
	require.NoError(t, db.Create(&doc).Error)

	require.NoError(t, repo.Delete(context.Background(), issue.ID, "admin"))

	_, err := repo.Get(context.Background(), issue.ID)
	assert.ErrorIs(t, err, ErrIssueNotFound)

	var docCount int64
	require.NoError(t, db.Model(&model.Document{}).Where("issue_id = ?", issue.ID).Count(&docCount).Error)
	assert.Zero(t, docCount)

	entries, err := auditRepo.ForIssue(context.Background(), issue.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.AuditActionDeleted, entries[0].Action)
	assert.Equal(t, "VPN down", *entries[0].OldValue)
	assert.Equal(t, model.AuditActionCreated, entries[1].Action)
}

func TestListFiltersByScope(t *testing.T) {
	repo, _, _ := newTestRepo(t)
	acme, it, ops := "Acme", "IT", "Ops"

	seedIssue(t, repo, &model.Issue{Title: "a", Description: "d", Company: &acme, Department: &it})
	seedIssue(t, repo, &model.Issue{Title: "b", Description: "d", Company: &acme, Department: &ops})
	seedIssue(t, repo, &model.Issue{Title: "c", Description: "d"})

	all, err := repo.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	scoped, err := repo.List(context.Background(), Filter{Company: &acme, Department: &it})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "a", scoped[0].Title)
}
