package web

import (
	"github.com/efidev/issuetracker/internal/audit"
	"github.com/gofiber/fiber/v2"
)

// AuditHandler serves the full audit trail page.
type AuditHandler struct {
	auditRepo audit.EntryRepository
}

func (h *AuditHandler) GetAuditLog(ctx *fiber.Ctx) error {
	entries, err := h.auditRepo.All(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.Render("audit_log", fiber.Map{
		"logs": entries,
	}, "layouts/base")
}

func NewAuditHandler(auditRepo audit.EntryRepository) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo}
}
