package handlers

import (
	"strings"

	applog "soleconnect/internal/log"
	"soleconnect/internal/repos"
	"soleconnect/internal/services"
	"soleconnect/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Catalog  *services.CatalogService
	Listings *services.ListingService
	Shops    *services.ShopService
	Users    *repos.UserRepo
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.Catalog.Stats()
	if err != nil {
		applog.Error(c, "admin.stats.fail", err, nil)
	}
	return render(c, "admin_dashboard", fiber.Map{"Stats": stats})
}

// GET /admin/listings. Moderation sees the whole table, active or not.
func (h *AdminHandler) ListingsPage(c *fiber.Ctx) error {
	rows, err := h.Listings.AllListings(200)
	if err != nil {
		applog.Error(c, "admin.listings.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load listings"})
	}
	return render(c, "admin_listings", fiber.Map{"Listings": rows})
}

// GET /admin/shops
func (h *AdminHandler) ShopsPage(c *fiber.Ctx) error {
	rows, err := h.Shops.AllShops(200)
	if err != nil {
		applog.Error(c, "admin.shops.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load shops"})
	}
	return render(c, "admin_shops", fiber.Map{"Shops": rows})
}

// GET /admin/users
func (h *AdminHandler) UsersPage(c *fiber.Ctx) error {
	users, err := h.Users.List()
	if err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load users"})
	}
	return render(c, "admin_users", fiber.Map{"Users": users})
}

// POST /admin/listings/:id/delete
func (h *AdminHandler) DeleteListing(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Listings.Delete(currentUser(c), id); err != nil {
		applog.Error(c, "admin.listings.delete.fail", err, map[string]any{"listing_id": id})
		return c.Status(400).SendString("could not delete listing")
	}
	applog.Audit(c, "admin.listings.delete", map[string]any{"listing_id": id})
	return c.Redirect("/admin/listings")
}

// POST /admin/shops/:id/delete
func (h *AdminHandler) DeleteShop(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Shops.Delete(currentUser(c), id); err != nil {
		applog.Error(c, "admin.shops.delete.fail", err, map[string]any{"shop_id": id})
		return c.Status(400).SendString("could not delete shop")
	}
	applog.Audit(c, "admin.shops.delete", map[string]any{"shop_id": id})
	return c.Redirect("/admin/shops")
}

// POST /admin/bulk-delete with form fields kind=listings|shops, ids=a,b,c.
// Not transactional: the response names the ids that failed, the rest are
// gone.
func (h *AdminHandler) BulkDelete(c *fiber.Ctx) error {
	kind := c.FormValue("kind")
	var ids []string
	for _, raw := range strings.Split(c.FormValue("ids"), ",") {
		if id, ok := validate.ID(raw); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "no valid ids"})
	}

	var failed []string
	switch kind {
	case "listings":
		failed = h.Listings.BulkDelete(currentUser(c), ids)
	case "shops":
		failed = h.Shops.BulkDelete(currentUser(c), ids)
	default:
		return c.Status(400).JSON(fiber.Map{"error": "unknown kind"})
	}

	applog.Audit(c, "admin.bulk_delete", map[string]any{
		"kind": kind, "requested": len(ids), "failed": failed,
	})
	if failed == nil {
		failed = []string{}
	}
	return c.JSON(fiber.Map{
		"deleted": len(ids) - len(failed),
		"failed":  failed,
	})
}

// POST /admin/users/:id/delete removes the account and hides its catalog.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Users.DeleteUserCascade(id); err != nil {
		applog.Error(c, "admin.users.delete.fail", err, map[string]any{"user_id": id})
		return c.Status(400).SendString("could not delete user")
	}
	applog.Audit(c, "admin.users.delete", map[string]any{"user_id": id})
	return c.Redirect("/admin/users")
}
