package catalog

import (
	"strings"
)

// Filter is the server-side filter set. Every present field becomes an
// equality predicate ANDed onto the base query; absent fields add nothing.
// The category value "All" counts as absent.
type Filter struct {
	Category  string
	Condition string
	SellerID  string
	ShopID    string
	OwnerID   string
	Featured  *bool
}

// Query composes the server-side portion of a catalog fetch: the active
// partition of a table, narrowed by equality predicates only, newest first.
// Range and free-text predicates never go here; the store only gets
// constraints a simple index can serve (see PostFilter).
type Query struct {
	table string
	conds []string
	args  []any
	limit int
	page  int
}

func NewQuery(table string) *Query {
	return &Query{table: table, conds: []string{"is_active = 1"}}
}

// Eq ANDs an equality predicate onto the query. Empty and "All" values are
// treated as absent, so order and presence of calls never changes semantics.
func (q *Query) Eq(col, val string) *Query {
	val = strings.TrimSpace(val)
	if val == "" || val == "All" {
		return q
	}
	q.conds = append(q.conds, col+" = ?")
	q.args = append(q.args, val)
	return q
}

func (q *Query) EqBool(col string, val bool) *Query {
	n := 0
	if val {
		n = 1
	}
	q.conds = append(q.conds, col+" = ?")
	q.args = append(q.args, n)
	return q
}

// Page caps the result window. Zero or negative limit means no LIMIT clause.
func (q *Query) Page(limit, page int) *Query {
	if page < 1 {
		page = 1
	}
	q.limit = limit
	q.page = page
	return q
}

// SQL renders the SELECT with the given column list. The ordering is fixed:
// creation time descending.
func (q *Query) SQL(cols string) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(cols)
	b.WriteString(" FROM ")
	b.WriteString(q.table)
	b.WriteString(" WHERE ")
	b.WriteString(strings.Join(q.conds, " AND "))
	b.WriteString(" ORDER BY created_at DESC")
	args := append([]any{}, q.args...)
	if q.limit > 0 {
		b.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, q.limit, (q.page-1)*q.limit)
	}
	return b.String(), args
}

// ListingQuery builds the server-side query for the listings collection.
func (f Filter) ListingQuery() *Query {
	q := NewQuery("listings")
	q.Eq("category", f.Category)
	q.Eq("condition", f.Condition)
	q.Eq("seller_id", f.SellerID)
	q.Eq("shop_id", f.ShopID)
	return q
}

// ShopQuery builds the server-side query for the shops collection. A shop's
// categories are a set, so category membership cannot be an equality
// predicate here; it runs in the post-filter instead.
func (f Filter) ShopQuery() *Query {
	q := NewQuery("shops")
	q.Eq("owner_id", f.OwnerID)
	if f.Featured != nil {
		q.EqBool("is_featured", *f.Featured)
	}
	return q
}
