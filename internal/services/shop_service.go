package services

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"soleconnect/internal/domain"
	"soleconnect/internal/repos"
)

type ShopService struct {
	Repo *repos.ShopRepo
}

func NewShopService(repo *repos.ShopRepo) *ShopService {
	return &ShopService{Repo: repo}
}

type ShopInput struct {
	Name        string
	Description string
	Email       string
	Phone       string
	Website     string
	Address     string
	City        string
	State       string
	ZipCode     string
	Categories  domain.StringSet
	Physical    bool
}

func (in ShopInput) validate() error {
	switch {
	case in.Name == "":
		return invalid("name", "required")
	case in.Description == "":
		return invalid("description", "required")
	case in.Email == "":
		return invalid("email", "required")
	}
	return nil
}

// Create opens the seller's storefront. Rating and review totals start at
// zero; a review pipeline elsewhere maintains them.
func (s *ShopService) Create(owner *domain.User, in ShopInput) (string, error) {
	if !owner.IsSeller() {
		return "", ErrForbidden
	}
	if err := in.validate(); err != nil {
		return "", err
	}
	if _, err := s.Repo.ByOwner(owner.ID); err == nil {
		return "", errors.New("seller already has a shop")
	}
	ts := timestamp()
	sh := domain.Shop{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     owner.ID,
		OwnerName:   owner.DisplayName(),
		Email:       in.Email,
		Phone:       in.Phone,
		Website:     in.Website,
		Address:     in.Address,
		City:        in.City,
		State:       in.State,
		ZipCode:     in.ZipCode,
		Categories:  in.Categories,
		Physical:    in.Physical,
		Active:      true,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if err := s.Repo.Insert(sh); err != nil {
		return "", err
	}
	return sh.ID, nil
}

func (s *ShopService) Update(actor *domain.User, id string, p domain.ShopPatch) error {
	existing, err := s.Repo.Get(id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && existing.OwnerID != actor.ID {
		return ErrForbidden
	}
	// Only moderation may toggle the featured flag.
	if p.Featured != nil && !actor.IsAdmin() {
		return ErrForbidden
	}
	if p.Name != nil && *p.Name == "" {
		return invalid("name", "required")
	}
	return s.Repo.Update(id, p)
}

// Delete mirrors listing deletion: hard removal, idempotent.
func (s *ShopService) Delete(actor *domain.User, id string) error {
	existing, err := s.Repo.Get(id)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil
		}
		return err
	}
	if !actor.IsAdmin() && existing.OwnerID != actor.ID {
		return ErrForbidden
	}
	return s.Repo.Delete(id)
}

func (s *ShopService) MyShop(ownerID string) (domain.Shop, error) {
	return s.Repo.ByOwner(ownerID)
}

// AllShops is the moderation view.
func (s *ShopService) AllShops(limit int) ([]domain.Shop, error) {
	return s.Repo.ListAll(limit)
}

// BulkDelete settles all removals concurrently and reports the ids that
// failed; see ListingService.BulkDelete for the contract.
func (s *ShopService) BulkDelete(actor *domain.User, ids []string) []string {
	if !actor.IsAdmin() {
		return append([]string{}, ids...)
	}
	var (
		mu     sync.Mutex
		failed []string
		wg     sync.WaitGroup
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := s.Repo.DeleteStrict(id); err != nil {
				mu.Lock()
				failed = append(failed, id)
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()
	sort.Strings(failed)
	return failed
}
