package handlers

import (
	applog "soleconnect/internal/log"
	"soleconnect/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireSeller gates the dashboard. Admins pass too so moderation can see
// what a seller sees.
func RequireSeller(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return c.Redirect("/login")
		}
		if !u.IsSeller() && !u.IsAdmin() {
			applog.Security(c, "access.denied.seller", map[string]any{"user_id": u.ID})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Seller account required"})
		}
		c.Locals("user", u)
		return c.Next()
	}
}

func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil || !u.IsAdmin() {
			applog.Security(c, "access.denied.admin", map[string]any{"sid": sid})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Access denied"})
		}
		c.Locals("user", u)
		return c.Next()
	}
}
