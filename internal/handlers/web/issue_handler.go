package web

import (
	"fmt"
	"strings"

	"github.com/efidev/issuetracker/internal/audit"
	"github.com/efidev/issuetracker/internal/auth"
	"github.com/efidev/issuetracker/internal/documents"
	"github.com/efidev/issuetracker/internal/issues"
	"github.com/efidev/issuetracker/internal/lookups"
	"github.com/efidev/issuetracker/internal/middlewares/sessions"
	"github.com/efidev/issuetracker/model"
	"github.com/gofiber/fiber/v2"
)

// IssueHandler serves the tracker list and issue CRUD pages.
type IssueHandler struct {
	issueService *issues.IssueService
	docService   *documents.DocumentService
	auditRepo    audit.EntryRepository
	lookupRepo   *lookups.LookupRepository
}

type trackerFilters struct {
	Status      string
	Priority    string
	Category    string
	Company     string
	Department  string
	Application string
	Search      string
}

func matchOptional(value *string, filter string) bool {
	return strings.EqualFold(deref(value), filter)
}

func (f trackerFilters) match(issue model.Issue) bool {
	if f.Status != "" && issue.Status != f.Status {
		return false
	}
	if f.Priority != "" && issue.Priority != f.Priority {
		return false
	}
	if f.Category != "" && issue.Category != f.Category {
		return false
	}
	if f.Company != "" && !matchOptional(issue.Company, f.Company) {
		return false
	}
	if f.Department != "" && !matchOptional(issue.Department, f.Department) {
		return false
	}
	if f.Application != "" && !matchOptional(issue.Application, f.Application) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		haystacks := []string{
			issue.Title, issue.Description,
			deref(issue.Company), deref(issue.Department), deref(issue.Application),
		}
		found := false
		for _, hay := range haystacks {
			if strings.Contains(strings.ToLower(hay), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (h *IssueHandler) lookupOptions(ctx *fiber.Ctx) (fiber.Map, error) {
	companies, err := h.lookupRepo.Companies(ctx.Context())
	if err != nil {
		return nil, err
	}
	departments, err := h.lookupRepo.Departments(ctx.Context())
	if err != nil {
		return nil, err
	}
	applications, err := h.lookupRepo.Applications(ctx.Context())
	if err != nil {
		return nil, err
	}
	return fiber.Map{
		"companies":    companies,
		"departments":  departments,
		"applications": applications,
	}, nil
}

// GetTracker lists the actor's visible issues. Without any query parameters
// the view defaults to "Not Started" issues.
func (h *IssueHandler) GetTracker(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)

	filters := trackerFilters{
		Status:      ctx.Query("status"),
		Priority:    ctx.Query("priority"),
		Category:    ctx.Query("category"),
		Company:     ctx.Query("company"),
		Department:  ctx.Query("department"),
		Application: ctx.Query("application"),
		Search:      ctx.Query("search"),
	}
	if len(ctx.Queries()) == 0 {
		filters.Status = model.StatusNotStarted
	}

	all, err := h.issueService.VisibleIssues(ctx.Context(), session.Actor())
	if err != nil {
		return err
	}
	visible := make([]model.Issue, 0, len(all))
	for _, issue := range all {
		if filters.match(issue) {
			visible = append(visible, issue)
		}
	}

	data, err := h.lookupOptions(ctx)
	if err != nil {
		return err
	}
	data["errorMsg"] = mapErrorCode(ctx.Query("error"))
	data["issues"] = visible
	data["filters"] = filters
	data["statuses"] = model.Statuses
	data["priorities"] = model.Priorities
	data["categories"] = model.Categories
	return ctx.Render("tracker", data, "layouts/base")
}

func (h *IssueHandler) GetAddIssue(ctx *fiber.Ctx) error {
	data, err := h.lookupOptions(ctx)
	if err != nil {
		return err
	}
	data["errorMsg"] = mapErrorCode(ctx.Query("error"))
	data["categories"] = model.Categories
	data["priorities"] = model.Priorities
	return ctx.Render("add_issue", data, "layouts/base")
}

func (h *IssueHandler) PostAddIssue(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)

	opts := issues.CreateIssueOptions{
		Title:       ctx.FormValue("title"),
		Description: ctx.FormValue("description"),
		Company:     optStr(ctx.FormValue("company")),
		Department:  optStr(ctx.FormValue("department")),
		Application: optStr(ctx.FormValue("application")),
		Category:    ctx.FormValue("category"),
		Priority:    ctx.FormValue("priority"),
	}
	issue, err := h.issueService.CreateIssue(ctx.Context(), session.Actor(), opts)
	if err != nil {
		return failRedirect(ctx, "/issue/add", err)
	}
	return ctx.Redirect(fmt.Sprintf("/issue/%d", issue.ID))
}

func (h *IssueHandler) GetIssue(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}
	session := sessions.Get(ctx)
	actor := session.Actor()

	issue, err := h.issueService.GetIssue(ctx.Context(), actor, id)
	if err != nil {
		return failRedirect(ctx, "/dashboard", err)
	}

	// Audit entries render for admins only.
	var auditEntries []model.AuditEntry
	if auth.CanViewAudit(actor) {
		auditEntries, err = h.auditRepo.ForIssue(ctx.Context(), id)
		if err != nil {
			return err
		}
	}
	docs, err := h.docService.ForIssue(ctx.Context(), id)
	if err != nil {
		return err
	}

	description, history := issues.SplitDescription(issue.Description)
	return ctx.Render("view_issue", fiber.Map{
		"errorMsg":    mapErrorCode(ctx.Query("error")),
		"issue":       issue,
		"description": description,
		"history":     history,
		"auditLogs":   auditEntries,
		"documents":   docs,
		"canEdit":     auth.CanEditIssue(actor, issue),
		"canDelete":   auth.CanDeleteIssue(actor),
	}, "layouts/base")
}

func (h *IssueHandler) GetEditIssue(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}
	session := sessions.Get(ctx)
	actor := session.Actor()

	issue, err := h.issueService.GetIssue(ctx.Context(), actor, id)
	if err != nil {
		return failRedirect(ctx, "/dashboard", err)
	}
	if !auth.CanEditIssue(actor, issue) {
		return redirect(ctx, "/dashboard", "error", "denied")
	}

	data, err := h.lookupOptions(ctx)
	if err != nil {
		return err
	}
	description, _ := issues.SplitDescription(issue.Description)
	data["errorMsg"] = mapErrorCode(ctx.Query("error"))
	data["issue"] = issue
	data["description"] = description
	data["categories"] = model.Categories
	data["priorities"] = model.Priorities
	data["statuses"] = model.Statuses
	return ctx.Render("edit_issue", data, "layouts/base")
}

func (h *IssueHandler) PostEditIssue(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}
	session := sessions.Get(ctx)

	opts := issues.EditIssueOptions{
		Title:       ctx.FormValue("title"),
		Description: ctx.FormValue("description"),
		Company:     optStr(ctx.FormValue("company")),
		Department:  optStr(ctx.FormValue("department")),
		Application: optStr(ctx.FormValue("application")),
		Category:    ctx.FormValue("category"),
		Priority:    ctx.FormValue("priority"),
		Status:      ctx.FormValue("status"),
	}
	if err := h.issueService.EditIssue(ctx.Context(), session.Actor(), id, opts); err != nil {
		return failRedirect(ctx, fmt.Sprintf("/issue/%d/edit", id), err)
	}
	return ctx.Redirect(fmt.Sprintf("/issue/%d", id))
}

func (h *IssueHandler) PostDeleteIssue(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}
	session := sessions.Get(ctx)
	if err := h.issueService.DeleteIssue(ctx.Context(), session.Actor(), id); err != nil {
		return failRedirect(ctx, "/dashboard", err)
	}
	return ctx.Redirect("/dashboard")
}

func NewIssueHandler(
	issueService *issues.IssueService,
	docService *documents.DocumentService,
	auditRepo audit.EntryRepository,
	lookupRepo *lookups.LookupRepository) *IssueHandler {
	return &IssueHandler{
		issueService: issueService,
		docService:   docService,
		auditRepo:    auditRepo,
		lookupRepo:   lookupRepo,
	}
}
