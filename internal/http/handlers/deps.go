package handlers

import (
	"soleconnect/internal/repos"
	"soleconnect/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	HomeHandler        *HomeHandler
	MarketplaceHandler *MarketplaceHandler
	ListingHandler     *ListingHandler
	ShopHandler        *ShopHandler
	SellerHandler      *SellerHandler
	AdminHandler       *AdminHandler
}

func NewDeps(db *sqlx.DB, auth *services.AuthService) *Deps {
	listingRepo := repos.NewListingRepo(db)
	shopRepo := repos.NewShopRepo(db)
	userRepo := repos.NewUserRepo(db)

	catalogSvc := services.NewCatalogService(listingRepo, shopRepo)
	listingSvc := services.NewListingService(listingRepo)
	shopSvc := services.NewShopService(shopRepo)

	return &Deps{
		HomeHandler:        &HomeHandler{Catalog: catalogSvc},
		MarketplaceHandler: &MarketplaceHandler{Catalog: catalogSvc},
		ListingHandler:     &ListingHandler{Catalog: catalogSvc, Listings: listingSvc},
		ShopHandler:        &ShopHandler{Catalog: catalogSvc},
		SellerHandler:      &SellerHandler{Catalog: catalogSvc, Listings: listingSvc, Shops: shopSvc},
		AdminHandler:       &AdminHandler{Catalog: catalogSvc, Listings: listingSvc, Shops: shopSvc, Users: userRepo},
	}
}
