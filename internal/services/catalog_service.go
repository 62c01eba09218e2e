package services

import (
	"soleconnect/internal/catalog"
	"soleconnect/internal/domain"
	"soleconnect/internal/repos"
)

const defaultPageSize = 24

// CatalogService runs the two-stage catalog fetch (server-side equality
// query, then in-process post-filter) and publishes the outcome through one
// result holder per collection.
type CatalogService struct {
	Listings *repos.ListingRepo
	Shops    *repos.ShopRepo

	listingState catalog.Holder[domain.Listing]
	shopState    catalog.Holder[domain.Shop]
}

func NewCatalogService(listings *repos.ListingRepo, shops *repos.ShopRepo) *CatalogService {
	return &CatalogService{Listings: listings, Shops: shops}
}

// FetchListings answers a browse request. The rows come back newest first;
// the post-filter preserves that order.
func (s *CatalogService) FetchListings(f catalog.Filter, pf catalog.PostFilter, page int) ([]domain.Listing, error) {
	return s.listingState.Fetch(catalog.Key(f, pf, page), func() ([]domain.Listing, error) {
		rows, err := s.Listings.Find(f, defaultPageSize, page)
		if err != nil {
			return nil, err
		}
		return pf.Listings(rows), nil
	})
}

func (s *CatalogService) FetchShops(f catalog.Filter, pf catalog.PostFilter, page int) ([]domain.Shop, error) {
	return s.shopState.Fetch(catalog.Key(f, pf, page), func() ([]domain.Shop, error) {
		rows, err := s.Shops.Find(f, defaultPageSize, page)
		if err != nil {
			return nil, err
		}
		return pf.Shops(rows), nil
	})
}

// ListingState exposes the held browse state to presentation: last result
// list, loading flag and error. On a failed refetch the previous list stays.
func (s *CatalogService) ListingState() catalog.Snapshot[domain.Listing] {
	return s.listingState.Snapshot()
}

func (s *CatalogService) ShopState() catalog.Snapshot[domain.Shop] {
	return s.shopState.Snapshot()
}

func (s *CatalogService) GetListing(id string) (domain.Listing, error) {
	return s.Listings.Get(id)
}

func (s *CatalogService) GetShop(id string) (domain.Shop, error) {
	return s.Shops.Get(id)
}

// FeaturedShops backs the home page strip.
func (s *CatalogService) FeaturedShops(limit int) ([]domain.Shop, error) {
	feat := true
	return s.Shops.Find(catalog.Filter{Featured: &feat}, limit, 1)
}

func (s *CatalogService) Stats() (domain.MarketStats, error) {
	return s.Listings.MarketStats()
}
