package catalog

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// sortColumns whitelists the orderable columns. Only values from this map ever
// reach the ORDER BY clause; everything else is rejected in Normalize.
var sortColumns = map[SortKey]string{
	SortPopularity: "popularity",
	SortPrice:      "price",
	SortTitle:      "title",
	SortCreatedAt:  "created_at",
}

// compile turns the canonical filter into a conjunction of predicates on the
// query. Every value is a bound parameter; absent filters add no clause.
func compile(q *gorm.DB, f Filter) *gorm.DB {
	if f.Category != nil {
		q = q.Where("category_id = ?", *f.Category)
	}
	if f.Publisher != nil {
		q = q.Where("publisher_id = ?", *f.Publisher)
	}
	if f.Search != "" {
		// LOWER/LIKE instead of ILIKE so the same predicate runs on the
		// sqlite test database
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.InStock {
		// inStock=false means "no restriction", never "only sold out"
		q = q.Where("stock > ?", 0)
	}
	return q
}

// orderBy resolves the sort key to a concrete column ordering with a
// deterministic id tie-break, so pagination over duplicate sort values never
// skips or repeats rows.
func orderBy(f Filter) string {
	return fmt.Sprintf("%s %s, id ASC", sortColumns[f.SortBy], f.SortOrder)
}

func (f Filter) offset() int {
	return (f.Page - 1) * f.Limit
}
