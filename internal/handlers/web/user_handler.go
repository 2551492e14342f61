package web

import (
	"fmt"

	"github.com/efidev/issuetracker/internal/lookups"
	"github.com/efidev/issuetracker/internal/middlewares/sessions"
	"github.com/efidev/issuetracker/internal/users"
	"github.com/efidev/issuetracker/model"
	"github.com/gofiber/fiber/v2"
)

// UserHandler serves the admin user management pages.
type UserHandler struct {
	userService *users.UserService
	lookupRepo  *lookups.LookupRepository
}

func (h *UserHandler) scopeOptions(ctx *fiber.Ctx) (fiber.Map, error) {
	companies, err := h.lookupRepo.Companies(ctx.Context())
	if err != nil {
		return nil, err
	}
	departments, err := h.lookupRepo.Departments(ctx.Context())
	if err != nil {
		return nil, err
	}
	return fiber.Map{
		"companies":   companies,
		"departments": departments,
		"roles":       model.Roles,
	}, nil
}

func (h *UserHandler) GetUsers(ctx *fiber.Ctx) error {
	list, err := h.userService.ListUsers(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.Render("manage_users", fiber.Map{
		"errorMsg": mapErrorCode(ctx.Query("error")),
		"users":    list,
	}, "layouts/base")
}

func (h *UserHandler) GetAddUser(ctx *fiber.Ctx) error {
	data, err := h.scopeOptions(ctx)
	if err != nil {
		return err
	}
	data["errorMsg"] = mapErrorCode(ctx.Query("error"))
	return ctx.Render("add_user", data, "layouts/base")
}

func (h *UserHandler) PostAddUser(ctx *fiber.Ctx) error {
	username := ctx.FormValue("username")
	password := ctx.FormValue("password")

	if username == "" || password == "" {
		return redirect(ctx, "/user/add", "error", "user_fields")
	}
	if err := validateUsername(username); err != nil {
		return redirect(ctx, "/user/add", "error", "user_fields")
	}
	if err := validatePassword(password, ctx.FormValue("confirm_password")); err != nil {
		if err.Error() == MsgPasswordMismatch {
			return redirect(ctx, "/user/add", "error", "password_mismatch")
		}
		return redirect(ctx, "/user/add", "error", "password_short")
	}

	opts := users.CreateUserOptions{
		Username:   username,
		Password:   password,
		Role:       ctx.FormValue("role"),
		Company:    optStr(ctx.FormValue("company")),
		Department: optStr(ctx.FormValue("department")),
	}
	if _, err := h.userService.CreateUser(ctx.Context(), opts); err != nil {
		return failRedirect(ctx, "/user/add", err)
	}
	return ctx.Redirect("/users")
}

func (h *UserHandler) GetEditUser(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}
	user, err := h.userService.GetUserByID(ctx.Context(), id)
	if err != nil {
		return failRedirect(ctx, "/users", err)
	}
	data, err := h.scopeOptions(ctx)
	if err != nil {
		return err
	}
	data["errorMsg"] = mapErrorCode(ctx.Query("error"))
	data["user"] = user
	return ctx.Render("edit_user", data, "layouts/base")
}

func (h *UserHandler) PostEditUser(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}
	editURL := fmt.Sprintf("/user/%d/edit", id)

	if password := ctx.FormValue("password"); password != "" {
		if err := validatePassword(password, ctx.FormValue("confirm_password")); err != nil {
			if err.Error() == MsgPasswordMismatch {
				return redirect(ctx, editURL, "error", "password_mismatch")
			}
			return redirect(ctx, editURL, "error", "password_short")
		}
	}

	// Company and department always apply: an empty form value clears the
	// stored value. Username, password and role stay untouched when empty.
	opts := users.UpdateUserOptions{
		Username:   optStr(ctx.FormValue("username")),
		Password:   optStr(ctx.FormValue("password")),
		Role:       optStr(ctx.FormValue("role")),
		Company:    optStr(ctx.FormValue("company")),
		Department: optStr(ctx.FormValue("department")),
	}
	if err := h.userService.UpdateUser(ctx.Context(), id, opts); err != nil {
		return failRedirect(ctx, editURL, err)
	}
	return ctx.Redirect("/users")
}

func (h *UserHandler) PostDeleteUser(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}
	session := sessions.Get(ctx)
	if err := h.userService.DeleteUser(ctx.Context(), id, session.UserID); err != nil {
		return failRedirect(ctx, "/users", err)
	}
	return ctx.Redirect("/users")
}

func NewUserHandler(userService *users.UserService, lookupRepo *lookups.LookupRepository) *UserHandler {
	return &UserHandler{userService: userService, lookupRepo: lookupRepo}
}
