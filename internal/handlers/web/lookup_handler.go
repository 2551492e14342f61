package web

import (
	"github.com/efidev/issuetracker/internal/lookups"
	"github.com/gofiber/fiber/v2"
)

// LookupHandler serves the admin pages that maintain the company, department
// and application reference lists. Issues store these as plain names, so
// removing an entry never touches existing rows.
type LookupHandler struct {
	lookupRepo *lookups.LookupRepository
}

func (h *LookupHandler) GetCompanies(ctx *fiber.Ctx) error {
	companies, err := h.lookupRepo.Companies(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.Render("manage_companies", fiber.Map{
		"errorMsg":  mapErrorCode(ctx.Query("error")),
		"companies": companies,
	}, "layouts/base")
}

func (h *LookupHandler) PostAddCompany(ctx *fiber.Ctx) error {
	name := ctx.FormValue("name")
	if name == "" {
		return redirect(ctx, "/companies", "error", "name_required")
	}
	if _, err := h.lookupRepo.CreateCompany(ctx.Context(), name); err != nil {
		return failRedirect(ctx, "/companies", err)
	}
	return ctx.Redirect("/companies")
}

func (h *LookupHandler) PostDeleteCompany(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}
	if err := h.lookupRepo.DeleteCompany(ctx.Context(), id); err != nil {
		return failRedirect(ctx, "/companies", err)
	}
	return ctx.Redirect("/companies")
}

func (h *LookupHandler) GetDepartments(ctx *fiber.Ctx) error {
	departments, err := h.lookupRepo.Departments(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.Render("manage_departments", fiber.Map{
		"errorMsg":    mapErrorCode(ctx.Query("error")),
		"departments": departments,
	}, "layouts/base")
}

func (h *LookupHandler) PostAddDepartment(ctx *fiber.Ctx) error {
	name := ctx.FormValue("name")
	if name == "" {
		return redirect(ctx, "/departments", "error", "name_required")
	}
	if _, err := h.lookupRepo.CreateDepartment(ctx.Context(), name); err != nil {
		return failRedirect(ctx, "/departments", err)
	}
	return ctx.Redirect("/departments")
}

func (h *LookupHandler) PostDeleteDepartment(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}
	if err := h.lookupRepo.DeleteDepartment(ctx.Context(), id); err != nil {
		return failRedirect(ctx, "/departments", err)
	}
	return ctx.Redirect("/departments")
}

func (h *LookupHandler) GetApplications(ctx *fiber.Ctx) error {
	applications, err := h.lookupRepo.Applications(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.Render("manage_applications", fiber.Map{
		"errorMsg":     mapErrorCode(ctx.Query("error")),
		"applications": applications,
	}, "layouts/base")
}

func (h *LookupHandler) PostAddApplication(ctx *fiber.Ctx) error {
	name := ctx.FormValue("name")
	if name == "" {
		return redirect(ctx, "/applications", "error", "name_required")
	}
	if _, err := h.lookupRepo.CreateApplication(ctx.Context(), name); err != nil {
		return failRedirect(ctx, "/applications", err)
	}
	return ctx.Redirect("/applications")
}

func (h *LookupHandler) PostDeleteApplication(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}
	if err := h.lookupRepo.DeleteApplication(ctx.Context(), id); err != nil {
		return failRedirect(ctx, "/applications", err)
	}
	return ctx.Redirect("/applications")
}

func NewLookupHandler(lookupRepo *lookups.LookupRepository) *LookupHandler {
	return &LookupHandler{lookupRepo: lookupRepo}
}
