package handlers

import (
	"time"

	"soleconnect/internal/domain"
	"soleconnect/internal/log"
	"soleconnect/internal/services"
	"soleconnect/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
	}
	return sid
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	email := c.FormValue("email")
	pass := c.FormValue("password")
	if _, ok := validate.Email(email); !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_format"})
		return render(c.Status(401), "login", fiber.Map{"Err": "Invalid email or password"})
	}

	u, err := h.Auth.Login(sid, email, pass)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return render(c.Status(401), "login", fiber.Map{"Err": "Invalid email or password"})
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	if u.IsSeller() {
		return c.Redirect("/dashboard")
	}
	return c.Redirect("/")
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	sid := ensureSID(c)

	email, okE := validate.Email(c.FormValue("email"))
	first, okF := validate.Name(c.FormValue("first_name"))
	last := c.FormValue("last_name")
	pass := c.FormValue("password")
	role := domain.Role(c.FormValue("role"))
	if !okE || !okF || role == domain.RoleAdmin || !role.Valid() {
		log.Security(c, "auth.register.fail", map[string]any{"email": email, "reason": "bad_input"})
		return render(c.Status(400), "register", fiber.Map{"Err": "Check the highlighted fields and try again"})
	}
	if !validate.Password(pass) {
		log.Security(c, "auth.register.fail", map[string]any{"email": email, "reason": "weak_password"})
		return render(c.Status(400), "register", fiber.Map{"Err": "Password needs 8+ chars with upper, lower, digit and symbol"})
	}

	u, err := h.Auth.Register(services.RegisterInput{
		Email:        email,
		Password:     pass,
		FirstName:    first,
		LastName:     last,
		Role:         role,
		StoreName:    c.FormValue("store_name"),
		BusinessType: c.FormValue("business_type"),
	})
	if err != nil {
		if err == services.ErrEmailTaken {
			return render(c.Status(409), "register", fiber.Map{"Err": "That email is already registered"})
		}
		log.Error(c, "auth.register.fail", err, map[string]any{"email": email})
		return render(c.Status(400), "register", fiber.Map{"Err": "Could not create the account"})
	}

	// Sign in right away.
	if _, err := h.Auth.Login(sid, u.Email, pass); err != nil {
		return c.Redirect("/login")
	}
	log.Audit(c, "auth.register.success", map[string]any{"email": u.Email, "role": string(u.Role)})
	if u.IsSeller() {
		return c.Redirect("/dashboard")
	}
	return c.Redirect("/")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/")
}
