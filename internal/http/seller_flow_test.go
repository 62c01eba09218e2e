package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"

	"soleconnect/internal/domain"
	"soleconnect/internal/http/handlers"
	"soleconnect/internal/repos"
	"soleconnect/internal/services"
)

func newSellerApp(t *testing.T) (*fiber.App, *repos.ListingRepo, *repos.UserRepo) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	listingRepo := repos.NewListingRepo(db)
	shopRepo := repos.NewShopRepo(db)
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}

	sh := &handlers.SellerHandler{
		Catalog:  services.NewCatalogService(listingRepo, shopRepo),
		Listings: services.NewListingService(listingRepo),
		Shops:    services.NewShopService(shopRepo),
	}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	dash := app.Group("/dashboard", handlers.RequireSeller(authSvc))
	dash.Get("/", sh.Dashboard)
	dash.Post("/listings", sh.CreateListing)
	dash.Post("/listings/:id", sh.UpdateListing)
	dash.Post("/listings/:id/delete", sh.DeleteListing)
	dash.Post("/shop", sh.SaveShop)
	return app, listingRepo, userRepo
}

func postForm(t *testing.T, app *fiber.App, sid, path string, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestSellerCreateListingForm(t *testing.T) {
	app, listingRepo, userRepo := newSellerApp(t)
	_ = userRepo.BindSession("sid-sara", "u-sara")

	form := url.Values{
		"name":        {"Gazelle Vintage"},
		"brand":       {"Adidas"},
		"description": {"80s colorway, light wear"},
		"category":    {"Sneakers"},
		"condition":   {"used"},
		"price":       {"74.50"},
		"sizes":       {"8, 9, 9"},
		"tags":        {"retro,suede"},
	}
	resp := postForm(t, app, "sid-sara", "/dashboard/listings", form)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect after create, got %d", resp.StatusCode)
	}

	mine, err := listingRepo.BySeller("u-sara")
	if err != nil {
		t.Fatal(err)
	}
	var created *domain.Listing
	for i := range mine {
		if mine[i].Name == "Gazelle Vintage" {
			created = &mine[i]
		}
	}
	if created == nil {
		t.Fatal("created listing not stored")
	}
	if created.Price != 74.50 || created.Condition != domain.ConditionUsed {
		t.Fatalf("form values lost: %+v", created)
	}
	// The seller's shop is attached, and the size set is deduplicated.
	if created.ShopID != "shop-kicks" {
		t.Fatalf("listing not attached to the seller's shop: %q", created.ShopID)
	}
	if len(created.Sizes) != 2 {
		t.Fatalf("sizes not deduplicated: %v", created.Sizes)
	}
}

func TestSellerCreateListingRejectsBadForm(t *testing.T) {
	app, listingRepo, userRepo := newSellerApp(t)
	_ = userRepo.BindSession("sid-sara", "u-sara")

	for field, bad := range map[string]string{
		"price":     "0",
		"condition": "mint",
		"name":      "",
	} {
		form := url.Values{
			"name":        {"Gazelle Vintage"},
			"brand":       {"Adidas"},
			"description": {"80s colorway"},
			"category":    {"Sneakers"},
			"condition":   {"used"},
			"price":       {"74.50"},
		}
		form.Set(field, bad)
		resp := postForm(t, app, "sid-sara", "/dashboard/listings", form)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("bad %s: expected 400, got %d", field, resp.StatusCode)
		}
	}

	mine, err := listingRepo.BySeller("u-sara")
	if err != nil {
		t.Fatal(err)
	}
	// Only the two seeded listings remain.
	if len(mine) != 2 {
		t.Fatalf("rejected form must not write: %d listings", len(mine))
	}
}

func TestSellerCannotEditForeignListing(t *testing.T) {
	app, listingRepo, userRepo := newSellerApp(t)
	_ = userRepo.BindSession("sid-sara", "u-sara")

	// lst-chelsea belongs to u-marco.
	resp := postForm(t, app, "sid-sara", "/dashboard/listings/lst-chelsea", url.Values{"price": {"5"}})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	l, err := listingRepo.Get("lst-chelsea")
	if err != nil {
		t.Fatal(err)
	}
	if l.Price != 89.50 {
		t.Fatalf("foreign edit went through: %v", l.Price)
	}

	resp = postForm(t, app, "sid-sara", "/dashboard/listings/lst-chelsea/delete", url.Values{})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 on foreign delete, got %d", resp.StatusCode)
	}
	if _, err := listingRepo.Get("lst-chelsea"); err != nil {
		t.Fatalf("foreign delete went through: %v", err)
	}
}

func TestSaveShopValidatesZip(t *testing.T) {
	app, _, userRepo := newSellerApp(t)
	_ = userRepo.BindSession("sid-sara", "u-sara")

	form := url.Values{
		"name":        {"Kicks Corner"},
		"description": {"Curated sneakers"},
		"email":       {"sara@kickscorner.test"},
		"zip":         {"787"},
	}
	resp := postForm(t, app, "sid-sara", "/dashboard/shop", form)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("short zip: expected 400, got %d", resp.StatusCode)
	}

	form.Set("zip", "78701")
	resp = postForm(t, app, "sid-sara", "/dashboard/shop", form)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("valid zip: expected redirect, got %d", resp.StatusCode)
	}

	// Blank zip stays allowed; online-only shops have no address.
	form.Set("zip", "")
	resp = postForm(t, app, "sid-sara", "/dashboard/shop", form)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("blank zip: expected redirect, got %d", resp.StatusCode)
	}
}

func TestSellerPartialUpdate(t *testing.T) {
	app, listingRepo, userRepo := newSellerApp(t)
	_ = userRepo.BindSession("sid-sara", "u-sara")

	before, err := listingRepo.Get("lst-aj1")
	if err != nil {
		t.Fatal(err)
	}
	resp := postForm(t, app, "sid-sara", "/dashboard/listings/lst-aj1", url.Values{"price": {"139.99"}})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	after, err := listingRepo.Get("lst-aj1")
	if err != nil {
		t.Fatal(err)
	}
	if after.Price != 139.99 {
		t.Fatalf("price not updated: %v", after.Price)
	}
	if after.Name != before.Name || after.CreatedAt != before.CreatedAt || after.SellerID != before.SellerID {
		t.Fatalf("fields outside the form changed: %+v", after)
	}
}
