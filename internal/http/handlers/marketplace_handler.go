package handlers

import (
	"strconv"
	"strings"

	"soleconnect/internal/catalog"
	applog "soleconnect/internal/log"
	"soleconnect/internal/services"
	"soleconnect/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type MarketplaceHandler struct {
	Catalog *services.CatalogService
}

// browseQuery splits the request's filter params into the server-side
// equality set and the in-process post-filter set. An invalid param comes
// back as the offending field name.
func browseQuery(c *fiber.Ctx) (catalog.Filter, catalog.PostFilter, string) {
	var f catalog.Filter
	var pf catalog.PostFilter

	if cat := strings.TrimSpace(c.Query("category")); cat != "" && cat != "All" {
		v, ok := validate.Category(cat)
		if !ok {
			return f, pf, "category"
		}
		f.Category = v
	}
	if cond := strings.TrimSpace(c.Query("condition")); cond != "" && cond != "All" {
		v, ok := validate.Condition(cond)
		if !ok {
			return f, pf, "condition"
		}
		f.Condition = v
	}
	if seller := strings.TrimSpace(c.Query("seller")); seller != "" {
		v, ok := validate.ID(seller)
		if !ok {
			return f, pf, "seller"
		}
		f.SellerID = v
	}

	minS, maxS := strings.TrimSpace(c.Query("min_price")), strings.TrimSpace(c.Query("max_price"))
	if minS != "" || maxS != "" {
		min, err1 := strconv.ParseFloat(minS, 64)
		if minS == "" {
			min, err1 = 0, nil
		}
		max, err2 := strconv.ParseFloat(maxS, 64)
		if maxS == "" {
			max, err2 = 1e9, nil
		}
		if err1 != nil || err2 != nil || min < 0 || max < min {
			return f, pf, "price"
		}
		pf.Price = &catalog.PriceRange{Min: min, Max: max}
	}

	if raw := strings.TrimSpace(c.Query("q")); raw != "" {
		v, ok := validate.Q(raw)
		if !ok {
			return f, pf, "q"
		}
		pf.Search = v
	}

	return f, pf, ""
}

func page(c *fiber.Ctx) int {
	p, _ := strconv.Atoi(c.Query("page", "1"))
	if p < 1 {
		p = 1
	}
	return p
}

// GET /marketplace
func (h *MarketplaceHandler) Browse(c *fiber.Ctx) error {
	f, pf, bad := browseQuery(c)
	if bad != "" {
		applog.Security(c, "validation.fail", map[string]any{"field": bad})
		return c.Status(fiber.StatusBadRequest).Render("marketplace", fiber.Map{
			"Listings": []any{}, "Count": 0, "Err": "Invalid filter",
		})
	}

	listings, err := h.Catalog.FetchListings(f, pf, page(c))
	if err != nil {
		applog.Error(c, "marketplace.fetch.fail", err, nil)
		// Stale-but-displayed: fall back to the last good result set.
		state := h.Catalog.ListingState()
		return c.Status(500).Render("marketplace", fiber.Map{
			"Listings": state.Items, "Count": len(state.Items),
			"Err": "Could not refresh results. Showing the last loaded list.",
		})
	}

	return render(c, "marketplace", fiber.Map{
		"Listings": listings, "Count": len(listings),
		"Category": f.Category, "Condition": f.Condition, "Q": pf.Search,
	})
}

// GET /api/v1/listings. The same browse, JSON-shaped for the dashboard and
// any headless consumer.
func (h *MarketplaceHandler) BrowseJSON(c *fiber.Ctx) error {
	f, pf, bad := browseQuery(c)
	if bad != "" {
		applog.Security(c, "validation.fail", map[string]any{"field": bad})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid " + bad})
	}
	listings, err := h.Catalog.FetchListings(f, pf, page(c))
	if err != nil {
		applog.Error(c, "marketplace.fetch.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load listings"})
	}
	return c.JSON(fiber.Map{"items": listings, "count": len(listings)})
}
