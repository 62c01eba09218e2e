package services_test

import (
	"errors"
	"testing"

	"soleconnect/internal/domain"
	"soleconnect/internal/repos"
	"soleconnect/internal/services"
)

func shopInput(name string) services.ShopInput {
	return services.ShopInput{
		Name:        name,
		Description: "consignment storefront",
		Email:       "owner@example.test",
		Categories:  domain.NewStringSet("Sneakers"),
	}
}

func TestShopCreateOnePerSeller(t *testing.T) {
	db := memdb(t)
	svc := services.NewShopService(repos.NewShopRepo(db))

	id, err := svc.Create(seller(), shopInput("Sole Mates"))
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("no id assigned")
	}
	if _, err := svc.Create(seller(), shopInput("Second Try")); err == nil {
		t.Fatal("one shop per seller")
	}

	sh, err := svc.MyShop(seller().ID)
	if err != nil {
		t.Fatal(err)
	}
	if sh.Rating != 0 || sh.TotalReviews != 0 {
		t.Fatalf("reputation must start at zero: %+v", sh)
	}
	if !sh.Active {
		t.Fatal("new shop must be active")
	}
}

func TestShopCreateRequiresSeller(t *testing.T) {
	db := memdb(t)
	svc := services.NewShopService(repos.NewShopRepo(db))

	buyer := &domain.User{ID: "u-buy", FirstName: "Ben", Role: domain.RoleBuyer}
	if _, err := svc.Create(buyer, shopInput("Nope")); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
}

func TestShopFeaturedToggleIsModerationOnly(t *testing.T) {
	db := memdb(t)
	svc := services.NewShopService(repos.NewShopRepo(db))

	id, err := svc.Create(seller(), shopInput("Sole Mates"))
	if err != nil {
		t.Fatal(err)
	}

	on := true
	if err := svc.Update(seller(), id, domain.ShopPatch{Featured: &on}); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("owner must not feature their own shop: %v", err)
	}
	if err := svc.Update(admin(), id, domain.ShopPatch{Featured: &on}); err != nil {
		t.Fatal(err)
	}

	sh, err := repos.NewShopRepo(db).Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if !sh.Featured {
		t.Fatal("featured flag not persisted")
	}
}

func TestShopUpdateOwnership(t *testing.T) {
	db := memdb(t)
	svc := services.NewShopService(repos.NewShopRepo(db))

	id, err := svc.Create(seller(), shopInput("Sole Mates"))
	if err != nil {
		t.Fatal(err)
	}

	other := &domain.User{ID: "u-other", FirstName: "Sam", Role: domain.RoleSeller}
	desc := "hijacked"
	if err := svc.Update(other, id, domain.ShopPatch{Description: &desc}); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}

	blank := ""
	if err := svc.Update(seller(), id, domain.ShopPatch{Name: &blank}); err == nil {
		t.Fatal("blank name must be rejected")
	}
}

func TestShopDeleteIdempotent(t *testing.T) {
	db := memdb(t)
	svc := services.NewShopService(repos.NewShopRepo(db))

	id, err := svc.Create(seller(), shopInput("Sole Mates"))
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(seller(), id); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(seller(), id); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}
