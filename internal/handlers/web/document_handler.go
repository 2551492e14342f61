package web

import (
	"fmt"

	"github.com/efidev/issuetracker/internal/auth"
	"github.com/efidev/issuetracker/internal/documents"
	"github.com/efidev/issuetracker/internal/issues"
	"github.com/efidev/issuetracker/internal/middlewares/sessions"
	"github.com/gofiber/fiber/v2"
)

// DocumentHandler serves attachment upload, download and removal. Access is
// derived from the owning issue: anyone who can see the issue can fetch its
// attachments, anyone who can edit it can add them. Removal is admin only.
type DocumentHandler struct {
	docService   *documents.DocumentService
	issueService *issues.IssueService
}

func issueURL(issueID uint) string {
	return fmt.Sprintf("/issue/%d", issueID)
}

func (h *DocumentHandler) PostUpload(ctx *fiber.Ctx) error {
	issueID, err := parseID(ctx, "id")
	if err != nil {
		return err
	}
	session := sessions.Get(ctx)
	actor := session.Actor()

	issue, err := h.issueService.GetIssue(ctx.Context(), actor, issueID)
	if err != nil {
		return failRedirect(ctx, "/tracker", err)
	}
	if !auth.CanEditIssue(actor, issue) {
		return redirect(ctx, issueURL(issueID), "error", "denied")
	}

	header, err := ctx.FormFile("document")
	if err != nil {
		return redirect(ctx, issueURL(issueID), "error", "no_file")
	}
	src, err := header.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	if _, err := h.docService.Store(ctx.Context(), issueID, header.Filename, src, session.Username); err != nil {
		return failRedirect(ctx, issueURL(issueID), err)
	}
	return ctx.Redirect(issueURL(issueID))
}

// serve loads the document, re-checks issue visibility and streams the file.
func (h *DocumentHandler) serve(ctx *fiber.Ctx, inline bool) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}
	actor := sessions.Get(ctx).Actor()

	doc, err := h.docService.GetDocument(ctx.Context(), id)
	if err != nil {
		return failRedirect(ctx, "/tracker", err)
	}
	if _, err := h.issueService.GetIssue(ctx.Context(), actor, doc.IssueID); err != nil {
		return failRedirect(ctx, "/tracker", err)
	}
	path, err := h.docService.FilePath(doc)
	if err != nil {
		return failRedirect(ctx, issueURL(doc.IssueID), err)
	}

	ctx.Set(fiber.HeaderContentType, "application/pdf")
	if inline {
		ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", doc.OriginalFilename))
	} else {
		ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.OriginalFilename))
	}
	return ctx.SendFile(path)
}

func (h *DocumentHandler) GetDownload(ctx *fiber.Ctx) error {
	return h.serve(ctx, false)
}

func (h *DocumentHandler) GetView(ctx *fiber.Ctx) error {
	return h.serve(ctx, true)
}

func (h *DocumentHandler) PostDelete(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}
	actor := sessions.Get(ctx).Actor()

	doc, err := h.docService.GetDocument(ctx.Context(), id)
	if err != nil {
		return failRedirect(ctx, "/tracker", err)
	}
	if _, err := h.issueService.GetIssue(ctx.Context(), actor, doc.IssueID); err != nil {
		return failRedirect(ctx, "/tracker", err)
	}
	if !auth.CanManage(actor) {
		return redirect(ctx, issueURL(doc.IssueID), "error", "denied")
	}
	if _, err := h.docService.Delete(ctx.Context(), id); err != nil {
		return failRedirect(ctx, issueURL(doc.IssueID), err)
	}
	return ctx.Redirect(issueURL(doc.IssueID))
}

func NewDocumentHandler(docService *documents.DocumentService, issueService *issues.IssueService) *DocumentHandler {
	return &DocumentHandler{docService: docService, issueService: issueService}
}
