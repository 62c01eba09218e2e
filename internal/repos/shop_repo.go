package repos

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"soleconnect/internal/catalog"
	"soleconnect/internal/domain"
)

const shopCols = `
  id, name, description, logo, banner, owner_id, owner_name, email, phone,
  website, address, city, state, zip_code, lat, lng, categories_json,
  is_physical, is_featured, rating, total_reviews, is_active, created_at, updated_at`

type ShopRepo struct{ db *sqlx.DB }

func NewShopRepo(db *sqlx.DB) *ShopRepo { return &ShopRepo{db: db} }

func (r *ShopRepo) Find(f catalog.Filter, limit, page int) ([]domain.Shop, error) {
	q, args := f.ShopQuery().Page(limit, page).SQL(shopCols)
	out := []domain.Shop{}
	err := r.db.Select(&out, q, args...)
	return out, err
}

// ListAll feeds moderation: every row, active or not, newest first.
func (r *ShopRepo) ListAll(limit int) ([]domain.Shop, error) {
	out := []domain.Shop{}
	err := r.db.Select(&out, `SELECT `+shopCols+` FROM shops ORDER BY created_at DESC LIMIT ?`, limit)
	return out, err
}

func (r *ShopRepo) Get(id string) (domain.Shop, error) {
	var s domain.Shop
	err := r.db.Get(&s, `SELECT `+shopCols+` FROM shops WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return s, ErrNotFound
	}
	return s, err
}

// ByOwner fetches a seller's shop regardless of active state. One shop per
// seller is an application rule, not a schema constraint.
func (r *ShopRepo) ByOwner(ownerID string) (domain.Shop, error) {
	var s domain.Shop
	err := r.db.Get(&s, `SELECT `+shopCols+` FROM shops WHERE owner_id = ? ORDER BY created_at DESC LIMIT 1`, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return s, ErrNotFound
	}
	return s, err
}

func (r *ShopRepo) Insert(s domain.Shop) error {
	_, err := r.db.NamedExec(`
	  INSERT INTO shops(
	    id, name, description, logo, banner, owner_id, owner_name, email, phone,
	    website, address, city, state, zip_code, lat, lng, categories_json,
	    is_physical, is_featured, rating, total_reviews, is_active, created_at, updated_at
	  ) VALUES (
	    :id, :name, :description, :logo, :banner, :owner_id, :owner_name, :email, :phone,
	    :website, :address, :city, :state, :zip_code, :lat, :lng, :categories_json,
	    :is_physical, :is_featured, :rating, :total_reviews, :is_active, :created_at, :updated_at
	  )`, s)
	return err
}

func (r *ShopRepo) Update(id string, p domain.ShopPatch) error {
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
	if p.Logo != nil {
		add("logo", *p.Logo)
	}
	if p.Banner != nil {
		add("banner", *p.Banner)
	}
	if p.Email != nil {
		add("email", *p.Email)
	}
	if p.Phone != nil {
		add("phone", *p.Phone)
	}
	if p.Website != nil {
		add("website", *p.Website)
	}
	if p.Address != nil {
		add("address", *p.Address)
	}
	if p.City != nil {
		add("city", *p.City)
	}
	if p.State != nil {
		add("state", *p.State)
	}
	if p.ZipCode != nil {
		add("zip_code", *p.ZipCode)
	}
	if p.Categories != nil {
		add("categories_json", *p.Categories)
	}
	if p.Physical != nil {
		add("is_physical", *p.Physical)
	}
	if p.Featured != nil {
		add("is_featured", *p.Featured)
	}
	if p.Active != nil {
		add("is_active", *p.Active)
	}

	args = append(args, id)
	res, err := r.db.Exec(`UPDATE shops SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ShopRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM shops WHERE id = ?`, id)
	return err
}

func (r *ShopRepo) DeleteStrict(id string) error {
	res, err := r.db.Exec(`DELETE FROM shops WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ShopRepo) DeactivateByOwner(ownerID string) error {
	_, err := r.db.Exec(`UPDATE shops SET is_active = 0, updated_at = ? WHERE owner_id = ?`, now(), ownerID)
	return err
}
