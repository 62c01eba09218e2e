package handlers

import (
	"soleconnect/internal/catalog"
	applog "soleconnect/internal/log"
	"soleconnect/internal/services"

	"github.com/gofiber/fiber/v2"
)

type HomeHandler struct {
	Catalog *services.CatalogService
}

// GET /
func (h *HomeHandler) Home(c *fiber.Ctx) error {
	latest, err := h.Catalog.FetchListings(catalog.Filter{}, catalog.PostFilter{}, 1)
	if err != nil {
		applog.Error(c, "home.listings.fail", err, nil)
		latest = nil
	}
	if len(latest) > 8 {
		latest = latest[:8]
	}
	featured, err := h.Catalog.FeaturedShops(4)
	if err != nil {
		applog.Error(c, "home.featured.fail", err, nil)
		featured = nil
	}
	stats, err := h.Catalog.Stats()
	if err != nil {
		applog.Error(c, "home.stats.fail", err, nil)
	}
	return render(c, "home", fiber.Map{
		"Latest": latest, "Featured": featured, "Stats": stats,
	})
}
