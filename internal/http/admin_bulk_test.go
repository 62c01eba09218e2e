package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"

	"soleconnect/internal/http/handlers"
	"soleconnect/internal/repos"
	"soleconnect/internal/services"
)

func newAdminApp(t *testing.T) (*fiber.App, *repos.ListingRepo, *repos.UserRepo) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	listingRepo := repos.NewListingRepo(db)
	shopRepo := repos.NewShopRepo(db)
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}

	ah := &handlers.AdminHandler{
		Catalog:  services.NewCatalogService(listingRepo, shopRepo),
		Listings: services.NewListingService(listingRepo),
		Shops:    services.NewShopService(shopRepo),
		Users:    userRepo,
	}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Post("/bulk-delete", ah.BulkDelete)
	return app, listingRepo, userRepo
}

func postBulk(t *testing.T, app *fiber.App, sid, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", "/admin/bulk-delete", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestBulkDeleteEndpoint(t *testing.T) {
	app, listingRepo, userRepo := newAdminApp(t)
	_ = userRepo.BindSession("sid-admin", "u-admin")

	resp := postBulk(t, app, "sid-admin", "kind=listings&ids=lst-aj1,lst-ultra,lst-ghost")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out struct {
		Deleted int      `json:"deleted"`
		Failed  []string `json:"failed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	sort.Strings(out.Failed)
	if out.Deleted != 2 || len(out.Failed) != 1 || out.Failed[0] != "lst-ghost" {
		t.Fatalf("expected 2 deleted with lst-ghost failed, got %+v", out)
	}

	// The survivors really are gone.
	for _, id := range []string{"lst-aj1", "lst-ultra"} {
		if _, err := listingRepo.Get(id); err != repos.ErrNotFound {
			t.Fatalf("%s still present: %v", id, err)
		}
	}
	if _, err := listingRepo.Get("lst-chelsea"); err != nil {
		t.Fatalf("untouched listing lost: %v", err)
	}
}

func TestBulkDeleteValidation(t *testing.T) {
	app, _, userRepo := newAdminApp(t)
	_ = userRepo.BindSession("sid-admin", "u-admin")

	if resp := postBulk(t, app, "sid-admin", "kind=listings&ids="); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty ids: expected 400, got %d", resp.StatusCode)
	}
	if resp := postBulk(t, app, "sid-admin", "kind=carts&ids=a"); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown kind: expected 400, got %d", resp.StatusCode)
	}
}

func TestBulkDeleteRequiresAdminSession(t *testing.T) {
	app, listingRepo, userRepo := newAdminApp(t)
	_ = userRepo.BindSession("sid-seller", "u-sara")

	resp := postBulk(t, app, "sid-seller", "kind=listings&ids=lst-aj1")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if _, err := listingRepo.Get("lst-aj1"); err != nil {
		t.Fatalf("listing must survive a denied request: %v", err)
	}
}
