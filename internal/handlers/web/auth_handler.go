package web

import (
	"time"

	"github.com/efidev/issuetracker/internal/middlewares/sessions"
	"github.com/efidev/issuetracker/internal/users"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler serves login and logout.
type AuthHandler struct {
	userService *users.UserService
}

func (h *AuthHandler) GetIndex(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	if session.IsLoggedIn() {
		return ctx.Redirect("/dashboard")
	}
	return ctx.Redirect("/login")
}

func (h *AuthHandler) GetLogin(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	if session.IsLoggedIn() {
		return ctx.Redirect("/dashboard")
	}
	return ctx.Render("login", fiber.Map{
		"errorMsg": mapErrorCode(ctx.Query("error")),
	}, "layouts/base")
}

func (h *AuthHandler) PostLogin(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	if session.IsLoggedIn() {
		return ctx.Redirect("/dashboard")
	}

	username := ctx.FormValue("username")
	password := ctx.FormValue("password")
	user, err := h.userService.Authenticate(ctx.Context(), username, password)
	if err != nil {
		return redirect(ctx, "/login", "error", "credentials")
	}

	session.Save(sessions.SessionData{
		IP:         ctx.IP(),
		UserID:     user.ID,
		Username:   user.Username,
		Role:       user.Role,
		Company:    user.Company,
		Department: user.Department,
		LoginTime:  time.Now(),
	})
	return ctx.Redirect("/dashboard")
}

func (h *AuthHandler) PostLogout(ctx *fiber.Ctx) error {
	return forceLogout(ctx, "")
}

func NewAuthHandler(userService *users.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}
