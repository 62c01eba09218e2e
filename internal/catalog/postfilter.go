package catalog

import (
	"strings"

	"soleconnect/internal/domain"
)

// PriceRange keeps items with Min <= price <= Max, inclusive both ends.
type PriceRange struct {
	Min float64
	Max float64
}

func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// PostFilter holds the predicates the store cannot evaluate server-side:
// a numeric range on price and a case-insensitive substring search. Both run
// in-process over the already-bounded result of a Query. An absent field is
// a strict no-op, never a match-nothing.
type PostFilter struct {
	Price    *PriceRange
	Search   string
	Category string // shop category-set membership; listings filter this server-side
}

// Listings narrows the materialized listing rows. Input order is preserved.
func (pf PostFilter) Listings(in []domain.Listing) []domain.Listing {
	term := strings.ToLower(strings.TrimSpace(pf.Search))
	if pf.Price == nil && term == "" {
		return in
	}
	out := make([]domain.Listing, 0, len(in))
	for _, l := range in {
		if pf.Price != nil && !pf.Price.Contains(l.Price) {
			continue
		}
		if term != "" && !listingMatches(l, term) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Shops narrows the materialized shop rows. Input order is preserved.
func (pf PostFilter) Shops(in []domain.Shop) []domain.Shop {
	term := strings.ToLower(strings.TrimSpace(pf.Search))
	cat := strings.TrimSpace(pf.Category)
	if cat == "All" {
		cat = ""
	}
	if term == "" && cat == "" {
		return in
	}
	out := make([]domain.Shop, 0, len(in))
	for _, s := range in {
		if cat != "" && !s.Categories.Has(cat) {
			continue
		}
		if term != "" && !shopMatches(s, term) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func listingMatches(l domain.Listing, term string) bool {
	return strings.Contains(strings.ToLower(l.Name), term) ||
		strings.Contains(strings.ToLower(l.Brand), term) ||
		strings.Contains(strings.ToLower(l.Description), term) ||
		l.Tags.HasFold(term)
}

func shopMatches(s domain.Shop, term string) bool {
	return strings.Contains(strings.ToLower(s.Name), term) ||
		strings.Contains(strings.ToLower(s.Description), term) ||
		s.Categories.HasFold(term)
}
