package domain

// ListingPatch is a partial update: nil fields are left untouched. Identity
// and provenance columns (id, created_at, seller_id) deliberately have no
// field here, so they can never be overwritten through an update.
type ListingPatch struct {
	Name          *string
	Description   *string
	Brand         *string
	Category      *string
	Condition     *string
	Price         *float64
	OriginalPrice *float64
	Sizes         *StringSet
	Colors        *StringSet
	Images        *StringSet
	Tags          *StringSet
	ShopID        *string
	Active        *bool
}

// ShopPatch mirrors ListingPatch for shops; id, created_at and owner_id are
// not patchable. Rating and total_reviews are owned by a review pipeline
// this service only stores, so they are not patchable either.
type ShopPatch struct {
	Name        *string
	Description *string
	Logo        *string
	Banner      *string
	Email       *string
	Phone       *string
	Website     *string
	Address     *string
	City        *string
	State       *string
	ZipCode     *string
	Categories  *StringSet
	Physical    *bool
	Featured    *bool
	Active      *bool
}
