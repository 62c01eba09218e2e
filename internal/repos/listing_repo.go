package repos

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"soleconnect/internal/catalog"
	"soleconnect/internal/domain"
)

const listingCols = `
  id, name, description, brand, category, condition, price, original_price,
  sizes_json, colors_json, images_json, tags_json,
  seller_id, seller_name, shop_id, views, is_active, created_at, updated_at`

type ListingRepo struct{ db *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{db: db} }

// Find runs the server-side portion of a catalog fetch: equality predicates
// over the active partition, newest first.
func (r *ListingRepo) Find(f catalog.Filter, limit, page int) ([]domain.Listing, error) {
	q, args := f.ListingQuery().Page(limit, page).SQL(listingCols)
	out := []domain.Listing{}
	err := r.db.Select(&out, q, args...)
	return out, err
}

// Get fetches by id regardless of active state; sellers and admins need to
// see deactivated rows too.
func (r *ListingRepo) Get(id string) (domain.Listing, error) {
	var l domain.Listing
	err := r.db.Get(&l, `SELECT `+listingCols+` FROM listings WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return l, ErrNotFound
	}
	return l, err
}

func (r *ListingRepo) Insert(l domain.Listing) error {
	_, err := r.db.NamedExec(`
	  INSERT INTO listings(
	    id, name, description, brand, category, condition, price, original_price,
	    sizes_json, colors_json, images_json, tags_json,
	    seller_id, seller_name, shop_id, views, is_active, created_at, updated_at
	  ) VALUES (
	    :id, :name, :description, :brand, :category, :condition, :price, :original_price,
	    :sizes_json, :colors_json, :images_json, :tags_json,
	    :seller_id, :seller_name, :shop_id, :views, :is_active, :created_at, :updated_at
	  )`, l)
	return err
}

// Update merges the patch over the stored row and always refreshes
// updated_at. A patch with no set fields still bumps the timestamp, which
// matches how edits behave everywhere else.
func (r *ListingRepo) Update(id string, p domain.ListingPatch) error {
	sets := []string{"updated_at = ?"}
	args := []any{now()}

	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.Brand != nil {
		add("brand", *p.Brand)
	}
	if p.Category != nil {
		add("category", *p.Category)
	}
	if p.Condition != nil {
		add("condition", *p.Condition)
	}
	if p.Price != nil {
		add("price", *p.Price)
	}
	if p.OriginalPrice != nil {
		add("original_price", *p.OriginalPrice)
	}
	if p.Sizes != nil {
		add("sizes_json", *p.Sizes)
	}
	if p.Colors != nil {
		add("colors_json", *p.Colors)
	}
	if p.Images != nil {
		add("images_json", *p.Images)
	}
	if p.Tags != nil {
		add("tags_json", *p.Tags)
	}
	if p.ShopID != nil {
		add("shop_id", *p.ShopID)
	}
	if p.Active != nil {
		add("is_active", *p.Active)
	}

	args = append(args, id)
	res, err := r.db.Exec(`UPDATE listings SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete is a hard delete and idempotent: removing an id that is already
// gone is success.
func (r *ListingRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM listings WHERE id = ?`, id)
	return err
}

// DeleteStrict is Delete with a not-found report, for bulk moderation where
// the caller must learn which ids did not go away.
func (r *ListingRepo) DeleteStrict(id string) error {
	res, err := r.db.Exec(`DELETE FROM listings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViews bumps the popularity counter in the store itself, never
// read-modify-write, so concurrent detail views cannot lose updates.
func (r *ListingRepo) IncrementViews(id string) error {
	_, err := r.db.Exec(`UPDATE listings SET views = views + 1 WHERE id = ?`, id)
	return err
}

// ListAll feeds moderation: every row, active or not, newest first.
func (r *ListingRepo) ListAll(limit int) ([]domain.Listing, error) {
	out := []domain.Listing{}
	err := r.db.Select(&out, `SELECT `+listingCols+` FROM listings ORDER BY created_at DESC LIMIT ?`, limit)
	return out, err
}

// BySeller returns everything a seller owns, deactivated rows included;
// the dashboard shows both. Catalog browsing goes through Find instead.
func (r *ListingRepo) BySeller(sellerID string) ([]domain.Listing, error) {
	out := []domain.Listing{}
	err := r.db.Select(&out, `SELECT `+listingCols+` FROM listings WHERE seller_id = ? ORDER BY created_at DESC`, sellerID)
	return out, err
}

// DeactivateBySeller soft-hides all of a removed seller's listings.
func (r *ListingRepo) DeactivateBySeller(sellerID string) error {
	_, err := r.db.Exec(`UPDATE listings SET is_active = 0, updated_at = ? WHERE seller_id = ?`, now(), sellerID)
	return err
}

// SellerStats backs the dashboard header: how many listings, how many of
// them live, and their accumulated views.
type SellerStats struct {
	Listings   int64 `db:"listings"`
	Active     int64 `db:"active"`
	TotalViews int64 `db:"total_views"`
}

func (r *ListingRepo) SellerStats(sellerID string) (SellerStats, error) {
	var st SellerStats
	err := r.db.Get(&st, `
	  SELECT COUNT(*) AS listings,
	         COALESCE(SUM(is_active),0) AS active,
	         COALESCE(SUM(views),0) AS total_views
	  FROM listings WHERE seller_id = ?`, sellerID)
	return st, err
}

// MarketStats backs the home page counters.
func (r *ListingRepo) MarketStats() (domain.MarketStats, error) {
	var st domain.MarketStats
	err := r.db.Get(&st, `
	  SELECT
	    (SELECT COUNT(*) FROM listings WHERE is_active = 1) AS listings,
	    (SELECT COUNT(*) FROM shops WHERE is_active = 1) AS shops,
	    (SELECT COALESCE(SUM(views),0) FROM listings) AS total_views,
	    (SELECT COUNT(DISTINCT seller_id) FROM listings WHERE is_active = 1) AS sellers`)
	return st, err
}
