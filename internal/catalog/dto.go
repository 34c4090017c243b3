package catalog

import "time"

type CategorySummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type PublisherSummary struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

type AuthorSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Bio  string `json:"bio,omitempty"`
}

type BookDTO struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Price       float64           `json:"price"`
	Stock       int               `json:"stock"`
	InStock     bool              `json:"in_stock"`
	Popularity  int               `json:"popularity"`
	Category    *CategorySummary  `json:"category"`
	Publisher   *PublisherSummary `json:"publisher"`
	Authors     []AuthorSummary   `json:"authors"`
	CreatedAt   time.Time         `json:"created_at"`
}

// BookDetail extends the list DTO with availability flags for the detail page.
type BookDetail struct {
	BookDTO
	IsLowStock bool `json:"is_low_stock"`
}

// BookPage is the paginated response envelope.
type BookPage struct {
	Items      []BookDTO `json:"items"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	Total      int64     `json:"total"`
	TotalPages int       `json:"total_pages"`
}

type PriceStats struct {
	Min float64 `json:"min"`
	Avg float64 `json:"avg"`
	Max float64 `json:"max"`
}

// Stats aggregates over the whole catalog, independent of any filter.
type Stats struct {
	TotalBooks int64      `json:"total_books"`
	Categories int64      `json:"categories"`
	InStock    int64      `json:"in_stock"`
	OutOfStock int64      `json:"out_of_stock"`
	Price      PriceStats `json:"price"`
}
