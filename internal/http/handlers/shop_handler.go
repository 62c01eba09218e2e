package handlers

import (
	"strings"

	"soleconnect/internal/catalog"
	applog "soleconnect/internal/log"
	"soleconnect/internal/services"
	"soleconnect/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ShopHandler struct {
	Catalog *services.CatalogService
}

// GET /shops. Shop category and search run in the post-filter: a shop's
// categories are a set, not a column the store can match with equality.
func (h *ShopHandler) Directory(c *fiber.Ctx) error {
	var f catalog.Filter
	var pf catalog.PostFilter

	if c.Query("featured") == "1" {
		feat := true
		f.Featured = &feat
	}
	if cat := strings.TrimSpace(c.Query("category")); cat != "" && cat != "All" {
		v, ok := validate.Category(cat)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "category"})
			return c.Status(400).Render("shops", fiber.Map{"Shops": []any{}, "Count": 0, "Err": "Invalid category"})
		}
		pf.Category = v
	}
	if raw := strings.TrimSpace(c.Query("q")); raw != "" {
		v, ok := validate.Q(raw)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "q"})
			return c.Status(400).Render("shops", fiber.Map{"Shops": []any{}, "Count": 0, "Err": "Enter a valid keyword"})
		}
		pf.Search = v
	}

	shops, err := h.Catalog.FetchShops(f, pf, page(c))
	if err != nil {
		applog.Error(c, "shops.fetch.fail", err, nil)
		state := h.Catalog.ShopState()
		return c.Status(500).Render("shops", fiber.Map{
			"Shops": state.Items, "Count": len(state.Items),
			"Err": "Could not refresh shops. Showing the last loaded list.",
		})
	}
	return render(c, "shops", fiber.Map{"Shops": shops, "Count": len(shops), "Q": pf.Search, "Category": pf.Category})
}

// GET /shop/:id. The shop page plus its active listings.
func (h *ShopHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "shop"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This shop is no longer available"})
	}
	s, err := h.Catalog.GetShop(id)
	if err != nil || !s.Active {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This shop is no longer available"})
	}
	listings, err := h.Catalog.FetchListings(catalog.Filter{ShopID: id}, catalog.PostFilter{}, 1)
	if err != nil {
		applog.Error(c, "shop.listings.fail", err, map[string]any{"shop_id": id})
		listings = nil
	}
	return render(c, "shop", fiber.Map{"S": s, "Listings": listings})
}
