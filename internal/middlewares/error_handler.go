package middlewares

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Something went wrong. Please try again."
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}
	if code == fiber.StatusInternalServerError {
		slog.Error("unhandled error", "path", ctx.Path(), "code", code, "error", err)
	}
	if renderErr := ctx.Status(code).Render("error", fiber.Map{
		"code":    code,
		"message": message,
	}, "layouts/base"); renderErr != nil {
		return ctx.Status(code).SendString(err.Error())
	}
	return nil
}
