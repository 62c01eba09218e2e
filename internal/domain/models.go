package domain

const (
	ConditionNew         = "new"
	ConditionUsed        = "used"
	ConditionRefurbished = "refurbished"
)

type Listing struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Description   string    `db:"description"`
	Brand         string    `db:"brand"`
	Category      string    `db:"category"`
	Condition     string    `db:"condition"` // new | used | refurbished
	Price         float64   `db:"price"`
	OriginalPrice float64   `db:"original_price"` // 0 = never discounted
	Sizes         StringSet `db:"sizes_json"`
	Colors        StringSet `db:"colors_json"`
	Images        StringSet `db:"images_json"`
	Tags          StringSet `db:"tags_json"`
	SellerID      string    `db:"seller_id"`
	SellerName    string    `db:"seller_name"`
	ShopID        string    `db:"shop_id"`
	Views         int64     `db:"views"`
	Active        bool      `db:"is_active"`
	CreatedAt     string    `db:"created_at"`
	UpdatedAt     string    `db:"updated_at"`
}

// OnSale reports whether the listing carries a strikethrough price.
func (l Listing) OnSale() bool {
	return l.OriginalPrice > l.Price && l.Price > 0
}

type Shop struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Description  string    `db:"description"`
	Logo         string    `db:"logo"`
	Banner       string    `db:"banner"`
	OwnerID      string    `db:"owner_id"`
	OwnerName    string    `db:"owner_name"`
	Email        string    `db:"email"`
	Phone        string    `db:"phone"`
	Website      string    `db:"website"`
	Address      string    `db:"address"`
	City         string    `db:"city"`
	State        string    `db:"state"`
	ZipCode      string    `db:"zip_code"`
	Lat          float64   `db:"lat"`
	Lng          float64   `db:"lng"`
	Categories   StringSet `db:"categories_json"`
	Physical     bool      `db:"is_physical"`
	Featured     bool      `db:"is_featured"`
	Rating       float64   `db:"rating"`        // stored only, never computed here
	TotalReviews int64     `db:"total_reviews"` // stored only, never computed here
	Active       bool      `db:"is_active"`
	CreatedAt    string    `db:"created_at"`
	UpdatedAt    string    `db:"updated_at"`
}

// MarketStats feeds the home page counters.
type MarketStats struct {
	Listings   int64 `db:"listings"`
	Shops      int64 `db:"shops"`
	TotalViews int64 `db:"total_views"`
	Sellers    int64 `db:"sellers"`
}
