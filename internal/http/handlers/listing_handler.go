package handlers

import (
	applog "soleconnect/internal/log"
	"soleconnect/internal/services"
	"soleconnect/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ListingHandler struct {
	Catalog  *services.CatalogService
	Listings *services.ListingService
}

// GET /listing/:id
func (h *ListingHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "listing"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
	}
	l, err := h.Catalog.GetListing(id)
	if err != nil || !l.Active {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
	}

	// Count the view after a successful load; a failed bump never blocks the
	// page.
	if err := h.Listings.RecordView(id); err != nil {
		applog.Error(c, "listing.view.fail", err, map[string]any{"listing_id": id})
	} else {
		l.Views++
	}

	return render(c, "listing", fiber.Map{"L": l})
}
