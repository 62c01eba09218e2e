package services_test

import (
	"errors"
	"testing"

	"soleconnect/internal/domain"
	"soleconnect/internal/repos"
	"soleconnect/internal/services"
)

func authSvc(t *testing.T) *services.AuthService {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	return &services.AuthService{Users: repos.NewUserRepo(db)}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := authSvc(t)

	u, err := svc.Register(services.RegisterInput{
		Email:     "  Tess@Example.test ",
		Password:  "Passw0rd!",
		FirstName: "Tess",
		LastName:  "Ng",
		Role:      domain.RoleBuyer,
	})
	if err != nil {
		t.Fatal(err)
	}
	if u.Email != "tess@example.test" {
		t.Fatalf("email must be normalized: %q", u.Email)
	}

	got, err := svc.Login("sid-1", "tess@example.test", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID {
		t.Fatalf("login resolved the wrong account: %q vs %q", got.ID, u.ID)
	}

	cur, err := svc.CurrentUser("sid-1")
	if err != nil || cur == nil || cur.ID != u.ID {
		t.Fatalf("session not bound: %v %v", cur, err)
	}

	if err := svc.Logout("sid-1"); err != nil {
		t.Fatal(err)
	}
	if cur, _ := svc.CurrentUser("sid-1"); cur != nil {
		t.Fatal("logout must unbind the session")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	svc := authSvc(t)

	if _, err := svc.Register(services.RegisterInput{
		Email: "tess@example.test", Password: "Passw0rd!", FirstName: "Tess", Role: domain.RoleBuyer,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Login("sid-1", "tess@example.test", "wrong"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("want ErrBadCreds, got %v", err)
	}
	if _, err := svc.Login("sid-1", "nobody@example.test", "Passw0rd!"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("unknown email must look identical: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := authSvc(t)

	in := services.RegisterInput{Email: "tess@example.test", Password: "Passw0rd!", FirstName: "Tess", Role: domain.RoleBuyer}
	if _, err := svc.Register(in); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register(in); !errors.Is(err, services.ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
}

func TestRegisterRoleRules(t *testing.T) {
	svc := authSvc(t)

	// Admins come from seeding, never from the public form.
	if _, err := svc.Register(services.RegisterInput{
		Email: "root@example.test", Password: "Passw0rd!", FirstName: "Root", Role: domain.RoleAdmin,
	}); err == nil {
		t.Fatal("admin self-registration must be rejected")
	}

	// Buyers never keep store metadata, whatever the form sends.
	buyer, err := svc.Register(services.RegisterInput{
		Email: "b@example.test", Password: "Passw0rd!", FirstName: "Ben",
		Role: domain.RoleBuyer, StoreName: "Sneaky Store", BusinessType: "consignment",
	})
	if err != nil {
		t.Fatal(err)
	}
	if buyer.StoreName != "" || buyer.BusinessType != "" {
		t.Fatalf("buyer kept store metadata: %+v", buyer)
	}

	seller, err := svc.Register(services.RegisterInput{
		Email: "s@example.test", Password: "Passw0rd!", FirstName: "Sara",
		Role: domain.RoleSeller, StoreName: "Sole Mates", BusinessType: "resale",
	})
	if err != nil {
		t.Fatal(err)
	}
	if seller.StoreName != "Sole Mates" || !seller.IsSeller() {
		t.Fatalf("seller metadata lost: %+v", seller)
	}
}
