package catalog

import (
	"fmt"
	"strings"

	"github.com/Skotchmaster/bookstore/internal/errs"
)

type SortKey string

const (
	SortPopularity SortKey = "popularity"
	SortPrice      SortKey = "price"
	SortTitle      SortKey = "title"
	SortCreatedAt  SortKey = "createdAt"
)

type SortDir string

const (
	SortAsc  SortDir = "ASC"
	SortDesc SortDir = "DESC"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// RawFilter carries the optional, already type-checked query parameters of a
// catalog request. Nil means the parameter was absent.
type RawFilter struct {
	Page      *int
	Limit     *int
	Category  *uint
	Publisher *uint
	Search    *string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    *string
	SortOrder *string
	InStock   *bool
}

// Filter is the canonical filter set: defaults substituted, cross-field
// constraints checked. Pointer fields stay nil when the filter is absent,
// which compiles to "no clause" rather than a match-everything clause.
type Filter struct {
	Page      int
	Limit     int
	Category  *uint
	Publisher *uint
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    SortKey
	SortOrder SortDir
	InStock   bool
}

// Normalize applies defaults and validates domain and cross-field constraints.
// Type-level validation happened upstream; everything rejected here is a
// semantically invalid combination.
func Normalize(raw RawFilter) (Filter, error) {
	f := Filter{
		Page:      1,
		Limit:     DefaultLimit,
		Category:  raw.Category,
		Publisher: raw.Publisher,
		MinPrice:  raw.MinPrice,
		MaxPrice:  raw.MaxPrice,
		SortBy:    SortCreatedAt,
		SortOrder: SortDesc,
		InStock:   true,
	}

	if raw.Page != nil {
		if *raw.Page < 1 {
			return Filter{}, fmt.Errorf("%w: page must be >= 1, got %d", errs.ErrInvalidFilter, *raw.Page)
		}
		f.Page = *raw.Page
	}

	if raw.Limit != nil {
		if *raw.Limit < 1 || *raw.Limit > MaxLimit {
			return Filter{}, fmt.Errorf("%w: limit must be in 1..%d, got %d", errs.ErrInvalidFilter, MaxLimit, *raw.Limit)
		}
		f.Limit = *raw.Limit
	}

	if raw.MinPrice != nil && *raw.MinPrice < 0 {
		return Filter{}, fmt.Errorf("%w: minPrice must be >= 0", errs.ErrInvalidFilter)
	}
	if raw.MaxPrice != nil && *raw.MaxPrice < 0 {
		return Filter{}, fmt.Errorf("%w: maxPrice must be >= 0", errs.ErrInvalidFilter)
	}
	if raw.MinPrice != nil && raw.MaxPrice != nil && *raw.MinPrice > *raw.MaxPrice {
		return Filter{}, fmt.Errorf("%w: minPrice %v greater than maxPrice %v",
			errs.ErrInvalidFilter, *raw.MinPrice, *raw.MaxPrice)
	}

	if raw.Search != nil {
		// an all-whitespace search restricts nothing
		f.Search = strings.TrimSpace(*raw.Search)
	}

	if raw.SortBy != nil {
		switch SortKey(*raw.SortBy) {
		case SortPopularity, SortPrice, SortTitle, SortCreatedAt:
			f.SortBy = SortKey(*raw.SortBy)
		default:
			return Filter{}, fmt.Errorf("%w: unknown sortBy %q", errs.ErrInvalidFilter, *raw.SortBy)
		}
	}

	if raw.SortOrder != nil {
		switch SortDir(strings.ToUpper(*raw.SortOrder)) {
		case SortAsc:
			f.SortOrder = SortAsc
		case SortDesc:
			f.SortOrder = SortDesc
		default:
			return Filter{}, fmt.Errorf("%w: unknown sortOrder %q", errs.ErrInvalidFilter, *raw.SortOrder)
		}
	}

	if raw.InStock != nil {
		f.InStock = *raw.InStock
	}

	return f, nil
}
