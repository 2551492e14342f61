package issues

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/efidev/issuetracker/internal/audit"
	"github.com/efidev/issuetracker/internal/auth"
	"github.com/efidev/issuetracker/internal/documents"
	"github.com/efidev/issuetracker/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*IssueService, audit.EntryRepository) {
	db := newTestDB(t)
	auditRepo := audit.NewEntryRepository(db)
	docRepo := documents.NewDocumentRepository(db)
	docService := documents.NewDocumentService(docRepo, t.TempDir(), 1<<20)
	return NewIssueService(NewIssueRepository(db, auditRepo), docService), auditRepo
}

func adminActor() auth.Actor {
	return auth.Actor{UserID: 1, Username: "admin", Role: model.RoleAdmin}
}

func hodActor(company, department string) auth.Actor {
	return auth.Actor{UserID: 2, Username: "hod1", Role: model.RoleHOD, Company: &company, Department: &department}
}

func viewerActor(company, department string) auth.Actor {
	return auth.Actor{UserID: 3, Username: "viewer1", Role: model.RoleViewer, Company: &company, Department: &department}
}

func validCreateOptions() CreateIssueOptions {
	return CreateIssueOptions{
		Title:       "VPN down",
		Description: "VPN is unreachable from the branch office",
		Category:    "Network",
		Priority:    "High",
	}
}

func TestCreateIssueValidation(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	opts := validCreateOptions()
	opts.Title = "   "
	_, err := service.CreateIssue(ctx, adminActor(), opts)
	assert.ErrorIs(t, err, ErrTitleRequired)

	opts = validCreateOptions()
	opts.Description = ""
	_, err = service.CreateIssue(ctx, adminActor(), opts)
	assert.ErrorIs(t, err, ErrDescriptionEmpty)

	opts = validCreateOptions()
	opts.Category = "Gardening"
	_, err = service.CreateIssue(ctx, adminActor(), opts)
	assert.ErrorIs(t, err, ErrInvalidCategory)

	opts = validCreateOptions()
	opts.Priority = "Urgent"
	_, err = service.CreateIssue(ctx, adminActor(), opts)
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestCreateIssueDeniedForViewer(t *testing.T) {
	service, _ := newTestService(t)
	_, err := service.CreateIssue(context.Background(), viewerActor("Acme", "IT"), validCreateOptions())
	assert.ErrorIs(t, err, auth.ErrPermissionDenied)
}

func TestCreateIssueForcesScopeForHOD(t *testing.T) {
	service, _ := newTestService(t)

	other := "Globex"
	opts := validCreateOptions()
	opts.Company = &other
	opts.Department = &other

	issue, err := service.CreateIssue(context.Background(), hodActor("Acme", "IT"), opts)
	require.NoError(t, err)
	require.NotNil(t, issue.Company)
	require.NotNil(t, issue.Department)
	assert.Equal(t, "Acme", *issue.Company)
	assert.Equal(t, "IT", *issue.Department)
}

func TestVisibleIssuesScoping(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	mk := func(company, department string) {
		opts := validCreateOptions()
		opts.Company = &company
		opts.Department = &department
		_, err := service.CreateIssue(ctx, adminActor(), opts)
		require.NoError(t, err)
	}
	mk("Acme", "IT")
	mk("Acme", "Ops")
	mk("Globex", "IT")

	all, err := service.VisibleIssues(ctx, adminActor())
	require.NoError(t, err)
	assert.Len(t, all, 3)

	scoped, err := service.VisibleIssues(ctx, viewerActor("Acme", "IT"))
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "Acme", *scoped[0].Company)
	assert.Equal(t, "IT", *scoped[0].Department)
}

func TestGetIssueOutOfScope(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	acme, it := "Acme", "IT"
	opts := validCreateOptions()
	opts.Company = &acme
	opts.Department = &it
	issue, err := service.CreateIssue(ctx, adminActor(), opts)
	require.NoError(t, err)

	_, err = service.GetIssue(ctx, viewerActor("Acme", "Ops"), issue.ID)
	assert.ErrorIs(t, err, auth.ErrScopeDenied)

	got, err := service.GetIssue(ctx, viewerActor("Acme", "IT"), issue.ID)
	require.NoError(t, err)
	assert.Equal(t, issue.ID, got.ID)
}

func TestEditIssueOutOfScopeHOD(t *testing.T) {
	service, auditRepo := newTestService(t)
	ctx := context.Background()

	acme, it := "Acme", "IT"
	opts := validCreateOptions()
	opts.Company = &acme
	opts.Department = &it
	issue, err := service.CreateIssue(ctx, adminActor(), opts)
	require.NoError(t, err)

	edit := EditIssueOptions{
		Title:       "VPN down",
		Description: "changed",
		Category:    "Network",
		Priority:    "High",
		Status:      model.StatusInProgress,
	}
	err = service.EditIssue(ctx, hodActor("Acme", "Ops"), issue.ID, edit)
	assert.ErrorIs(t, err, auth.ErrScopeDenied)

	entries, err := auditRepo.ForIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1) // the denied edit left no trace
}

func TestEditIssueAppendsHistory(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	issue, err := service.CreateIssue(ctx, adminActor(), validCreateOptions())
	require.NoError(t, err)

	edit := EditIssueOptions{
		Title:       "VPN down",
		Description: "VPN restored, monitoring",
		Category:    "Network",
		Priority:    "High",
		Status:      model.StatusInProgress,
	}
	require.NoError(t, service.EditIssue(ctx, adminActor(), issue.ID, edit))

	stored, err := service.GetIssue(ctx, adminActor(), issue.ID)
	require.NoError(t, err)

	editable, history := SplitDescription(stored.Description)
	assert.Equal(t, "VPN restored, monitoring", editable)
	assert.Contains(t, history, "--- Edit by admin on ")
	assert.Contains(t, history, "Previous text: VPN is unreachable from the branch office")

	// Second edit stacks a second history note.
	edit.Description = "closed out"
	edit.Status = model.StatusResolved
	require.NoError(t, service.EditIssue(ctx, adminActor(), issue.ID, edit))

	stored, err = service.GetIssue(ctx, adminActor(), issue.ID)
	require.NoError(t, err)
	editable, history = SplitDescription(stored.Description)
	assert.Equal(t, "closed out", editable)
	assert.Equal(t, 2, strings.Count(history, "--- Edit by admin on "))
	assert.Contains(t, history, "Previous text: VPN restored, monitoring")
	assert.Equal(t, 1, strings.Count(stored.Description, EditHistoryMarker))
}

func TestDeleteIssueRequiresAdmin(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	acme, it := "Acme", "IT"
	opts := validCreateOptions()
	opts.Company = &acme
	opts.Department = &it
	issue, err := service.CreateIssue(ctx, adminActor(), opts)
	require.NoError(t, err)

	err = service.DeleteIssue(ctx, hodActor("Acme", "IT"), issue.ID)
	assert.ErrorIs(t, err, auth.ErrPermissionDenied)

	require.NoError(t, service.DeleteIssue(ctx, adminActor(), issue.ID))
	_, err = service.GetIssue(ctx, adminActor(), issue.ID)
	assert.ErrorIs(t, err, ErrIssueNotFound)
}

func TestSplitDescription(t *testing.T) {
	desc := fmt.Sprintf("current text\n\n%s\n--- Edit by bob on 2026-01-02 10:00:00 ---\nPrevious text: old text", EditHistoryMarker)
	editable, history := SplitDescription(desc)
	assert.Equal(t, "current text", editable)
	assert.Contains(t, history, "Previous text: old text")

	editable, history = SplitDescription("plain description")
	assert.Equal(t, "plain description", editable)
	assert.Empty(t, history)
}

func TestAppendEditHistoryFormat(t *testing.T) {
	now := time.Date(2026, 1, 2, 10, 30, 0, 0, time.UTC)
	got := appendEditHistory("original", "updated", "bob", now)
	want := "updated\n\n" + EditHistoryMarker + "\n--- Edit by bob on 2026-01-02 10:30:00 ---\nPrevious text: original"
	assert.Equal(t, want, got)
}
