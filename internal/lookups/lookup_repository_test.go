package lookups

import (
	"context"
	"testing"

	"github.com/efidev/issuetracker/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *LookupRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, model.AutoMigrate(db))
	return NewLookupRepository(db)
}

func TestCompanyLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	company, err := repo.CreateCompany(ctx, "Acme")
	require.NoError(t, err)
	assert.NotZero(t, company.ID)

	_, err = repo.CreateCompany(ctx, "Acme")
	assert.ErrorIs(t, err, ErrNameTaken)

	_, err = repo.CreateCompany(ctx, "")
	assert.ErrorIs(t, err, ErrNameRequired)

	companies, err := repo.Companies(ctx)
	require.NoError(t, err)
	assert.Len(t, companies, 1)

	require.NoError(t, repo.DeleteCompany(ctx, company.ID))
	assert.ErrorIs(t, repo.DeleteCompany(ctx, company.ID), ErrNotFound)
}

func TestLookupTablesAreIndependent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// The same name may exist in all three tables at once.
	_, err := repo.CreateCompany(ctx, "Shared")
	require.NoError(t, err)
	_, err = repo.CreateDepartment(ctx, "Shared")
	require.NoError(t, err)
	_, err = repo.CreateApplication(ctx, "Shared")
	require.NoError(t, err)

	departments, err := repo.Departments(ctx)
	require.NoError(t, err)
	assert.Len(t, departments, 1)

	applications, err := repo.Applications(ctx)
	require.NoError(t, err)
	assert.Len(t, applications, 1)
}

func TestDeleteLookupLeavesIssueNames(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	company, err := repo.CreateCompany(ctx, "Acme")
	require.NoError(t, err)

	name := "Acme"
	issue := model.Issue{
		Title: "t", Description: "d", Company: &name,
		Category: "Software", Priority: "Low", Status: model.StatusNotStarted,
		CreatedBy: "admin",
	}
	require.NoError(t, repo.db.Create(&issue).Error)

	require.NoError(t, repo.DeleteCompany(ctx, company.ID))

	var stored model.Issue
	require.NoError(t, repo.db.First(&stored, issue.ID).Error)
	require.NotNil(t, stored.Company)
	assert.Equal(t, "Acme", *stored.Company)
}
