package issues

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/efidev/issuetracker/internal/auth"
	"github.com/efidev/issuetracker/internal/documents"
	"github.com/efidev/issuetracker/model"
)

// EditHistoryMarker delimits the append-only prior-text trail embedded in an
// issue's description. Everything after the first marker is history.
const EditHistoryMarker = "--- EDIT HISTORY ---"

const editTimestampLayout = "2006-01-02 15:04:05"

type CreateIssueOptions struct {
	Title       string
	Description string
	Company     *string
	Department  *string
	Application *string
	Category    string
	Priority    string
}

type EditIssueOptions struct {
	Title       string
	Description string
	Company     *string
	Department  *string
	Application *string
	Category    string
	Priority    string
	Status      string
}

type IssueService struct {
	issueRepo  IssueRepository
	docService *documents.DocumentService
}

func validateEnums(category, priority string, status *string) error {
	if !model.IsValidCategory(category) {
		return ErrInvalidCategory
	}
	if !model.IsValidPriority(priority) {
		return ErrInvalidPriority
	}
	if status != nil && !model.IsValidStatus(*status) {
		return ErrInvalidStatus
	}
	return nil
}

// CreateIssue validates and inserts a new issue on behalf of the actor. HOD
// actors have their own company/department forced onto the record. Status is
// always "Not Started" for new issues.
func (s *IssueService) CreateIssue(ctx context.Context, actor auth.Actor, opts CreateIssueOptions) (*model.Issue, error) {
	if !auth.CanCreateIssue(actor) {
		return nil, auth.ErrPermissionDenied
	}
	if strings.TrimSpace(opts.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(opts.Description) == "" {
		return nil, ErrDescriptionEmpty
	}
	if err := validateEnums(opts.Category, opts.Priority, nil); err != nil {
		return nil, err
	}

	company, department := auth.EnforceScope(actor, opts.Company, opts.Department)
	issue := model.Issue{
		Title:       opts.Title,
		Description: opts.Description,
		Company:     company,
		Department:  department,
		Application: opts.Application,
		Category:    opts.Category,
		Priority:    opts.Priority,
		CreatedBy:   actor.Username,
	}
	if err := s.issueRepo.Create(ctx, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// VisibleIssues lists the issues the actor may see, newest first. Admins see
// everything; everyone else is restricted to their own scope.
func (s *IssueService) VisibleIssues(ctx context.Context, actor auth.Actor) ([]model.Issue, error) {
	company, department := auth.VisibilityFilter(actor)
	return s.issueRepo.List(ctx, Filter{Company: company, Department: department})
}

func (s *IssueService) GetIssue(ctx context.Context, actor auth.Actor, id uint) (*model.Issue, error) {
	issue, err := s.issueRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanViewIssue(actor, issue) {
		return nil, auth.ErrScopeDenied
	}
	return issue, nil
}

// SplitDescription separates the editable text from the embedded edit
// history. The history half is empty until the first edit.
func SplitDescription(description string) (editable, history string) {
	if idx := strings.Index(description, EditHistoryMarker); idx >= 0 {
		return strings.TrimSpace(description[:idx]), description[idx+len(EditHistoryMarker):]
	}
	return strings.TrimSpace(description), ""
}

// appendEditHistory rebuilds the stored description: the new editable text
// first, then the history section with the previous text attributed to this
// edit appended last. Each edit's prior text stays recoverable forever.
func appendEditHistory(previous, newText, editor string, now time.Time) string {
	oldEditable, history := SplitDescription(previous)
	note := fmt.Sprintf("--- Edit by %s on %s ---\nPrevious text: %s",
		editor, now.Format(editTimestampLayout), oldEditable)
	if history != "" {
		history = history + "\n\n" + note
	} else {
		history = "\n" + note
	}
	return strings.TrimSpace(newText) + "\n\n" + EditHistoryMarker + history
}

// EditIssue applies the edit workflow: authorization, scope forcing for HOD
// actors, edit-history accumulation on the description, then the diff-only
// repository update. The repository's description audit entry captures the
// full stored column before and after, so the embedded history and the audit
// log overlap on purpose.
func (s *IssueService) EditIssue(ctx context.Context, actor auth.Actor, id uint, opts EditIssueOptions) error {
	issue, err := s.issueRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanEditIssue(actor, issue) {
		if actor.Role == model.RoleHOD && !actor.InScope(issue) {
			return auth.ErrScopeDenied
		}
		return auth.ErrPermissionDenied
	}
	if strings.TrimSpace(opts.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(opts.Description) == "" {
		return ErrDescriptionEmpty
	}
	status := opts.Status
	if err := validateEnums(opts.Category, opts.Priority, &status); err != nil {
		return err
	}

	company, department := auth.EnforceScope(actor, opts.Company, opts.Department)
	description := appendEditHistory(issue.Description, opts.Description, actor.Username, time.Now())

	updates := FieldUpdates{
		Title:       &opts.Title,
		Description: &description,
		Company:     OptionalUpdate{Set: true, Value: company},
		Department:  OptionalUpdate{Set: true, Value: department},
		Application: OptionalUpdate{Set: true, Value: opts.Application},
		Category:    &opts.Category,
		Priority:    &opts.Priority,
		Status:      &opts.Status,
	}
	return s.issueRepo.Update(ctx, id, actor.Username, updates)
}

// DeleteIssue removes the issue, its audit-recorded deletion entry and its
// document metadata in one transaction, then clears the stored attachment
// bytes. Prior audit entries stay queryable by issue id.
func (s *IssueService) DeleteIssue(ctx context.Context, actor auth.Actor, id uint) error {
	if !auth.CanDeleteIssue(actor) {
		return auth.ErrPermissionDenied
	}
	docs, err := s.docService.ForIssue(ctx, id)
	if err != nil {
		return err
	}
	if err := s.issueRepo.Delete(ctx, id, actor.Username); err != nil {
		return err
	}
	s.docService.RemoveStoredFiles(docs)
	return nil
}

func NewIssueService(issueRepo IssueRepository, docService *documents.DocumentService) *IssueService {
	return &IssueService{issueRepo: issueRepo, docService: docService}
}
