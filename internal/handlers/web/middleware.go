package web

import (
	"errors"

	"github.com/efidev/issuetracker/internal/auth"
	"github.com/efidev/issuetracker/internal/backup"
	"github.com/efidev/issuetracker/internal/documents"
	"github.com/efidev/issuetracker/internal/issues"
	"github.com/efidev/issuetracker/internal/lookups"
	"github.com/efidev/issuetracker/internal/middlewares/sessions"
	"github.com/efidev/issuetracker/internal/store"
	"github.com/efidev/issuetracker/internal/users"
	"github.com/gofiber/fiber/v2"
)

// RequireLogin redirects anonymous visitors to the login page.
func RequireLogin(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	if !session.IsLoggedIn() {
		return redirect(ctx, "/login")
	}
	return ctx.Next()
}

// RequireAdmin gates the management surfaces.
func RequireAdmin(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	if !auth.CanManage(session.Actor()) {
		return redirect(ctx, "/dashboard", "error", "denied")
	}
	return ctx.Next()
}

// RequireIssueEditor gates issue create/edit pages to admin and hod roles.
func RequireIssueEditor(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	if !auth.CanCreateIssue(session.Actor()) {
		return redirect(ctx, "/dashboard", "error", "denied")
	}
	return ctx.Next()
}

// InjectSessionVars exposes the logged-in account to the view layer. The
// base layout uses these to render the navigation bar.
func InjectSessionVars(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	actor := session.Actor()
	ctx.Locals("isLoggedIn", session.IsLoggedIn())
	ctx.Locals("sessionUsername", session.Username)
	ctx.Locals("sessionRole", session.Role)
	ctx.Locals("isAdmin", auth.CanManage(actor))
	ctx.Locals("canCreateIssues", auth.CanCreateIssue(actor))
	return ctx.Next()
}

// errCode maps a service error onto the query-encoded code carried across
// the redirect. Unknown errors bubble up to the fiber error handler.
func errCode(err error) string {
	switch {
	case errors.Is(err, auth.ErrPermissionDenied):
		return "denied"
	case errors.Is(err, auth.ErrScopeDenied):
		return "issue_scope"
	case errors.Is(err, issues.ErrIssueNotFound):
		return "issue_not_found"
	case errors.Is(err, issues.ErrTitleRequired), errors.Is(err, issues.ErrDescriptionEmpty):
		return "issue_fields"
	case errors.Is(err, issues.ErrInvalidCategory),
		errors.Is(err, issues.ErrInvalidPriority),
		errors.Is(err, issues.ErrInvalidStatus):
		return "issue_choice"
	case errors.Is(err, users.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, users.ErrUsernameTaken):
		return "username_taken"
	case errors.Is(err, users.ErrUsernameRequired), errors.Is(err, users.ErrPasswordRequired):
		return "user_fields"
	case errors.Is(err, users.ErrPasswordTooShort):
		return "password_short"
	case errors.Is(err, users.ErrScopeRequired), errors.Is(err, users.ErrInvalidRole):
		return "scope_required"
	case errors.Is(err, users.ErrSelfDeleteRefused):
		return "self_delete"
	case errors.Is(err, lookups.ErrNameRequired):
		return "name_required"
	case errors.Is(err, lookups.ErrNameTaken):
		return "name_taken"
	case errors.Is(err, lookups.ErrNotFound):
		return "not_found"
	case errors.Is(err, documents.ErrDocumentNotFound):
		return "document_not_found"
	case errors.Is(err, documents.ErrNotPDF), errors.Is(err, documents.ErrFileTooLarge):
		return "only_pdf"
	case errors.Is(err, documents.ErrFileMissing):
		return "file_missing"
	case errors.Is(err, backup.ErrNoDatabaseInArchive):
		return "bad_backup"
	case errors.Is(err, store.ErrContention):
		return "store_busy"
	default:
		return ""
	}
}

// failRedirect sends the user back to location with the error code for err,
// or surfaces err to the error handler when it has no user-facing mapping.
func failRedirect(ctx *fiber.Ctx, location string, err error) error {
	code := errCode(err)
	if code == "" {
		return err
	}
	return redirect(ctx, location, "error", code)
}
