package main

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"soleconnect/internal/config"
	"soleconnect/internal/http/handlers"
	applog "soleconnect/internal/log"
	"soleconnect/internal/repos"
	"soleconnect/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	// Templates & app
	engine := html.New("./web/templates", ".html")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in (for templates/headers)
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(string(c.Request().URI().Path()), "/static/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"form": c.FormValue("csrf")})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	app.Static("/static", "./web/static")

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, authSvc)

	// Public pages
	app.Get("/", deps.HomeHandler.Home)
	app.Get("/marketplace", limiter.New(limiter.Config{Max: 30, Expiration: time.Minute}), deps.MarketplaceHandler.Browse)
	app.Get("/shops", deps.ShopHandler.Directory)
	app.Get("/shop/:id", deps.ShopHandler.Detail)

	// Listing pages
	app.Get("/listing", func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
	})
	app.Get("/listing/:id", deps.ListingHandler.Detail)

	// API
	api := app.Group("/api/v1")
	browseLimiter := limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|browse"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.browse.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/listings", browseLimiter, deps.MarketplaceHandler.BrowseJSON)

	// Auth routes (login throttled)
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), authH.Login)
	app.Get("/register", authH.RegisterForm)
	app.Post("/register", authH.Register)
	app.Post("/logout", authH.Logout)

	// Seller dashboard
	dash := app.Group("/dashboard", handlers.RequireSeller(authSvc))
	dash.Get("/", deps.SellerHandler.Dashboard)
	dash.Get("/listings/new", deps.SellerHandler.NewListingForm)
	dash.Post("/listings", deps.SellerHandler.CreateListing)
	dash.Get("/listings/:id/edit", deps.SellerHandler.EditListingForm)
	dash.Post("/listings/:id", deps.SellerHandler.UpdateListing)
	dash.Post("/listings/:id/delete", deps.SellerHandler.DeleteListing)
	dash.Get("/shop", deps.SellerHandler.ShopForm)
	dash.Post("/shop", deps.SellerHandler.SaveShop)

	// Admin moderation
	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/", deps.AdminHandler.Dashboard)
	admin.Get("/listings", deps.AdminHandler.ListingsPage)
	admin.Get("/shops", deps.AdminHandler.ShopsPage)
	admin.Get("/users", deps.AdminHandler.UsersPage)
	admin.Post("/listings/:id/delete", deps.AdminHandler.DeleteListing)
	admin.Post("/shops/:id/delete", deps.AdminHandler.DeleteShop)
	admin.Post("/bulk-delete", deps.AdminHandler.BulkDelete)
	admin.Post("/users/:id/delete", deps.AdminHandler.DeleteUser)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
