package services

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"soleconnect/internal/domain"
	"soleconnect/internal/repos"
)

var ErrForbidden = errors.New("not allowed")

// ValidationError reports a rejected field before any store call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

type ListingService struct {
	Repo *repos.ListingRepo
}

func NewListingService(repo *repos.ListingRepo) *ListingService {
	return &ListingService{Repo: repo}
}

type ListingInput struct {
	Name          string
	Description   string
	Brand         string
	Category      string
	Condition     string
	Price         float64
	OriginalPrice float64
	Sizes         domain.StringSet
	Colors        domain.StringSet
	Images        domain.StringSet
	Tags          domain.StringSet
	ShopID        string
}

func (in ListingInput) validate() error {
	switch {
	case in.Name == "":
		return invalid("name", "required")
	case in.Brand == "":
		return invalid("brand", "required")
	case in.Description == "":
		return invalid("description", "required")
	case in.Category == "":
		return invalid("category", "required")
	case in.Condition == "":
		return invalid("condition", "required")
	}
	switch in.Condition {
	case domain.ConditionNew, domain.ConditionUsed, domain.ConditionRefurbished:
	default:
		return invalid("condition", "must be new, used or refurbished")
	}
	if in.Price <= 0 {
		return invalid("price", "must be positive")
	}
	if in.OriginalPrice < 0 {
		return invalid("originalPrice", "cannot be negative")
	}
	return nil
}

// Create validates first and only then writes; a rejected listing never
// reaches the store. Timestamps and the zeroed view counter are assigned
// here, not by the caller.
func (s *ListingService) Create(seller *domain.User, in ListingInput) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	ts := timestamp()
	l := domain.Listing{
		ID:            uuid.NewString(),
		Name:          in.Name,
		Description:   in.Description,
		Brand:         in.Brand,
		Category:      in.Category,
		Condition:     in.Condition,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Sizes:         in.Sizes,
		Colors:        in.Colors,
		Images:        in.Images,
		Tags:          in.Tags,
		SellerID:      seller.ID,
		SellerName:    seller.DisplayName(),
		ShopID:        in.ShopID,
		Views:         0,
		Active:        true,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}
	if err := s.Repo.Insert(l); err != nil {
		return "", err
	}
	return l.ID, nil
}

// Update applies a partial merge. Only the owning seller or an admin may
// edit; id, created_at and seller_id are not expressible in the patch type,
// so they survive every update.
func (s *ListingService) Update(actor *domain.User, id string, p domain.ListingPatch) error {
	existing, err := s.Repo.Get(id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && existing.SellerID != actor.ID {
		return ErrForbidden
	}
	if p.Price != nil && *p.Price <= 0 {
		return invalid("price", "must be positive")
	}
	if p.Condition != nil {
		switch *p.Condition {
		case domain.ConditionNew, domain.ConditionUsed, domain.ConditionRefurbished:
		default:
			return invalid("condition", "must be new, used or refurbished")
		}
	}
	if p.Name != nil && *p.Name == "" {
		return invalid("name", "required")
	}
	return s.Repo.Update(id, p)
}

// Delete is a hard removal and idempotent for the caller: a listing that is
// already gone deletes successfully. Ownership is checked only when the row
// still exists.
func (s *ListingService) Delete(actor *domain.User, id string) error {
	existing, err := s.Repo.Get(id)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil
		}
		return err
	}
	if !actor.IsAdmin() && existing.SellerID != actor.ID {
		return ErrForbidden
	}
	return s.Repo.Delete(id)
}

// RecordView bumps the popularity counter once per detail view. The
// increment happens in the store, so concurrent views never lose updates.
func (s *ListingService) RecordView(id string) error {
	return s.Repo.IncrementViews(id)
}

// BulkDelete issues all removals concurrently and waits for every one to
// settle. It is not transactional: the returned slice names the ids that
// failed (sorted, for stable output), everything else is gone.
func (s *ListingService) BulkDelete(actor *domain.User, ids []string) []string {
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

func (s *ListingService) SellerStats(sellerID string) (repos.SellerStats, error) {
	return s.Repo.SellerStats(sellerID)
}

// MyListings backs the dashboard table: every listing the seller owns,
// deactivated ones included.
func (s *ListingService) MyListings(sellerID string) ([]domain.Listing, error) {
	return s.Repo.BySeller(sellerID)
}

// AllListings is the moderation view.
func (s *ListingService) AllListings(limit int) ([]domain.Listing, error) {
	return s.Repo.ListAll(limit)
}
