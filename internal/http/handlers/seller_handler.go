package handlers

import (
	"errors"
	"strings"

	"soleconnect/internal/domain"
	applog "soleconnect/internal/log"
	"soleconnect/internal/repos"
	"soleconnect/internal/services"
	"soleconnect/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SellerHandler struct {
	Catalog  *services.CatalogService
	Listings *services.ListingService
	Shops    *services.ShopService
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

// splitSet turns a comma-separated form field into a deduplicated set.
func splitSet(raw string) domain.StringSet {
	s := domain.StringSet{}
	for _, part := range strings.Split(raw, ",") {
		s = s.Add(part)
	}
	return s
}

// GET /dashboard. The seller's own listings, including deactivated ones.
func (h *SellerHandler) Dashboard(c *fiber.Ctx) error {
	u := currentUser(c)
	mine, err := h.Listings.MyListings(u.ID)
	if err != nil {
		applog.Error(c, "dashboard.listings.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your listings"})
	}
	stats, err := h.Listings.SellerStats(u.ID)
	if err != nil {
		applog.Error(c, "dashboard.stats.fail", err, nil)
	}
	shop, err := h.Shops.MyShop(u.ID)
	hasShop := err == nil
	return render(c, "dashboard", fiber.Map{
		"Listings": mine, "Stats": stats, "Shop": shop, "HasShop": hasShop,
	})
}

// GET /dashboard/listings/new
func (h *SellerHandler) NewListingForm(c *fiber.Ctx) error {
	return render(c, "listing_form", fiber.Map{"Mode": "new"})
}

// POST /dashboard/listings
func (h *SellerHandler) CreateListing(c *fiber.Ctx) error {
	u := currentUser(c)
	in, bad := listingInput(c)
	if bad != "" {
		applog.Security(c, "validation.fail", map[string]any{"field": bad})
		return render(c.Status(400), "listing_form", fiber.Map{"Mode": "new", "Err": "Invalid " + bad})
	}
	if shop, err := h.Shops.MyShop(u.ID); err == nil {
		in.ShopID = shop.ID
	}

	id, err := h.Listings.Create(u, in)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			applog.Security(c, "validation.fail", map[string]any{"field": ve.Field})
			return render(c.Status(400), "listing_form", fiber.Map{"Mode": "new", "Err": ve.Error()})
		}
		applog.Error(c, "listing.create.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not create the listing"})
	}
	applog.Audit(c, "listing.create", map[string]any{"listing_id": id})
	return c.Redirect("/dashboard")
}

// GET /dashboard/listings/:id/edit
func (h *SellerHandler) EditListingForm(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Listing not found"})
	}
	l, err := h.Catalog.GetListing(id)
	if err != nil || (!u.IsAdmin() && l.SellerID != u.ID) {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Listing not found"})
	}
	return render(c, "listing_form", fiber.Map{"Mode": "edit", "L": l})
}

// POST /dashboard/listings/:id
func (h *SellerHandler) UpdateListing(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	p, bad := listingPatch(c)
	if bad != "" {
		applog.Security(c, "validation.fail", map[string]any{"field": bad})
		return render(c.Status(400), "listing_form", fiber.Map{"Mode": "edit", "Err": "Invalid " + bad})
	}
	if err := h.Listings.Update(u, id, p); err != nil {
		if errors.Is(err, services.ErrForbidden) {
			applog.Security(c, "listing.update.denied", map[string]any{"listing_id": id})
			return c.Status(403).Render("notfound", fiber.Map{"Message": "Access denied"})
		}
		if errors.Is(err, repos.ErrNotFound) {
			return c.Status(404).Render("notfound", fiber.Map{"Message": "Listing not found"})
		}
		applog.Error(c, "listing.update.fail", err, map[string]any{"listing_id": id})
		return c.Status(400).SendString("could not update listing")
	}
	applog.Audit(c, "listing.update", map[string]any{"listing_id": id})
	return c.Redirect("/dashboard")
}

// POST /dashboard/listings/:id/delete
func (h *SellerHandler) DeleteListing(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Listings.Delete(u, id); err != nil {
		if errors.Is(err, services.ErrForbidden) {
			applog.Security(c, "listing.delete.denied", map[string]any{"listing_id": id})
			return c.Status(403).Render("notfound", fiber.Map{"Message": "Access denied"})
		}
		applog.Error(c, "listing.delete.fail", err, map[string]any{"listing_id": id})
		return c.Status(400).SendString("could not delete listing")
	}
	applog.Audit(c, "listing.delete", map[string]any{"listing_id": id})
	return c.Redirect("/dashboard")
}

// GET /dashboard/shop
func (h *SellerHandler) ShopForm(c *fiber.Ctx) error {
	u := currentUser(c)
	shop, err := h.Shops.MyShop(u.ID)
	if err != nil {
		return render(c, "shop_form", fiber.Map{"Mode": "new"})
	}
	return render(c, "shop_form", fiber.Map{"Mode": "edit", "S": shop})
}

// POST /dashboard/shop. Create on first save, partial update afterwards.
func (h *SellerHandler) SaveShop(c *fiber.Ctx) error {
	u := currentUser(c)

	name, okN := validate.Name(c.FormValue("name"))
	email, okE := validate.Email(c.FormValue("email"))
	desc := strings.TrimSpace(c.FormValue("description"))
	if !okN || !okE || desc == "" {
		applog.Security(c, "validation.fail", map[string]any{"field": "shop"})
		return render(c.Status(400), "shop_form", fiber.Map{"Mode": "new", "Err": "Name, email and description are required"})
	}
	zip := strings.TrimSpace(c.FormValue("zip"))
	if zip != "" {
		v, ok := validate.ZIP(zip)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "zip"})
			return render(c.Status(400), "shop_form", fiber.Map{"Mode": "new", "Err": "ZIP code must be five digits"})
		}
		zip = v
	}
	cats := splitSet(c.FormValue("categories"))
	physical := c.FormValue("is_physical") == "1"

	existing, err := h.Shops.MyShop(u.ID)
	if err != nil {
		id, err := h.Shops.Create(u, services.ShopInput{
			Name:        name,
			Description: desc,
			Email:       email,
			Phone:       strings.TrimSpace(c.FormValue("phone")),
			Website:     strings.TrimSpace(c.FormValue("website")),
			Address:     strings.TrimSpace(c.FormValue("address")),
			City:        strings.TrimSpace(c.FormValue("city")),
			State:       strings.TrimSpace(c.FormValue("state")),
			ZipCode:     zip,
			Categories:  cats,
			Physical:    physical,
		})
		if err != nil {
			applog.Error(c, "shop.create.fail", err, nil)
			return render(c.Status(400), "shop_form", fiber.Map{"Mode": "new", "Err": "Could not create the shop"})
		}
		applog.Audit(c, "shop.create", map[string]any{"shop_id": id})
		return c.Redirect("/dashboard")
	}

	phone := strings.TrimSpace(c.FormValue("phone"))
	website := strings.TrimSpace(c.FormValue("website"))
	p := domain.ShopPatch{
		Name: &name, Description: &desc, Email: &email,
		Phone: &phone, Website: &website, ZipCode: &zip,
		Categories: &cats, Physical: &physical,
	}
	if err := h.Shops.Update(u, existing.ID, p); err != nil {
		applog.Error(c, "shop.update.fail", err, map[string]any{"shop_id": existing.ID})
		return render(c.Status(400), "shop_form", fiber.Map{"Mode": "edit", "S": existing, "Err": "Could not save the shop"})
	}
	applog.Audit(c, "shop.update", map[string]any{"shop_id": existing.ID})
	return c.Redirect("/dashboard")
}

// listingInput reads and validates the create form.
func listingInput(c *fiber.Ctx) (services.ListingInput, string) {
	var in services.ListingInput

	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return in, "name"
	}
	brand, ok := validate.Name(c.FormValue("brand"))
	if !ok {
		return in, "brand"
	}
	cat, ok := validate.Category(c.FormValue("category"))
	if !ok {
		return in, "category"
	}
	cond, ok := validate.Condition(c.FormValue("condition"))
	if !ok {
		return in, "condition"
	}
	price, ok := validate.Price(c.FormValue("price"))
	if !ok {
		return in, "price"
	}
	orig, ok := validate.OptionalPrice(c.FormValue("original_price"))
	if !ok {
		return in, "original_price"
	}
	desc := strings.TrimSpace(c.FormValue("description"))
	if desc == "" {
		return in, "description"
	}

	in = services.ListingInput{
		Name:          name,
		Description:   desc,
		Brand:         brand,
		Category:      cat,
		Condition:     cond,
		Price:         price,
		OriginalPrice: orig,
		Sizes:         splitSet(c.FormValue("sizes")),
		Colors:        splitSet(c.FormValue("colors")),
		Images:        splitSet(c.FormValue("images")),
		Tags:          splitSet(c.FormValue("tags")),
	}
	return in, ""
}

// listingPatch reads the edit form: only submitted fields enter the patch,
// so unchanged columns are left alone.
func listingPatch(c *fiber.Ctx) (domain.ListingPatch, string) {
	var p domain.ListingPatch

	if v := c.FormValue("name"); v != "" {
		name, ok := validate.Name(v)
		if !ok {
			return p, "name"
		}
		p.Name = &name
	}
	if v := c.FormValue("brand"); v != "" {
		brand, ok := validate.Name(v)
		if !ok {
			return p, "brand"
		}
		p.Brand = &brand
	}
	if v := strings.TrimSpace(c.FormValue("description")); v != "" {
		p.Description = &v
	}
	if v := c.FormValue("category"); v != "" {
		cat, ok := validate.Category(v)
		if !ok {
			return p, "category"
		}
		p.Category = &cat
	}
	if v := c.FormValue("condition"); v != "" {
		cond, ok := validate.Condition(v)
		if !ok {
			return p, "condition"
		}
		p.Condition = &cond
	}
	if v := c.FormValue("price"); v != "" {
		price, ok := validate.Price(v)
		if !ok {
			return p, "price"
		}
		p.Price = &price
	}
	if v := c.FormValue("original_price"); v != "" {
		orig, ok := validate.OptionalPrice(v)
		if !ok {
			return p, "original_price"
		}
		p.OriginalPrice = &orig
	}
	if v := c.FormValue("sizes"); v != "" {
		s := splitSet(v)
		p.Sizes = &s
	}
	if v := c.FormValue("colors"); v != "" {
		s := splitSet(v)
		p.Colors = &s
	}
	if v := c.FormValue("images"); v != "" {
		s := splitSet(v)
		p.Images = &s
	}
	if v := c.FormValue("tags"); v != "" {
		s := splitSet(v)
		p.Tags = &s
	}
	if v := c.FormValue("active"); v != "" {
		active := v == "1"
		p.Active = &active
	}
	return p, ""
}
