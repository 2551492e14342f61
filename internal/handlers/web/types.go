package web

import "github.com/gofiber/fiber/v2"

// optStr maps an empty form value to nil, matching the store's nullable
// columns.
func optStr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// parseID reads a positive numeric route parameter.
func parseID(ctx *fiber.Ctx, name string) (uint, error) {
	id, err := ctx.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}
