package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/bookstore/internal/errs"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/util"
)

// Service is the catalog query engine. It holds no mutable state; every call
// re-derives its result from current storage content.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// List runs the full pipeline: normalize -> compile -> count -> paged select
// -> assemble. The count runs against the same compiled predicate as the
// select, so a page past the end still reports the true total.
func (s *Service) List(ctx context.Context, raw RawFilter) (*BookPage, error) {
	f, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := compile(s.DB.WithContext(ctx).Model(&models.Book{}), f).Count(&total).Error; err != nil {
		return nil, errs.Storage(err)
	}

	var books []models.Book
	if err := compile(s.DB.WithContext(ctx).Model(&models.Book{}), f).
		Preload("Category").
		Preload("Publisher").
		Order(orderBy(f)).
		Offset(f.offset()).
		Limit(f.Limit).
		Find(&books).Error; err != nil {
		return nil, errs.Storage(err)
	}

	authors, err := s.loadAuthors(ctx, bookIDs(books), false)
	if err != nil {
		return nil, err
	}

	items := make([]BookDTO, len(books))
	for i := range books {
		items[i] = assemble(&books[i], authors[books[i].ID])
	}

	return &BookPage{
		Items:      items,
		Page:       f.Page,
		Limit:      f.Limit,
		Total:      total,
		TotalPages: util.TotalPages(total, f.Limit),
	}, nil
}

func (s *Service) GetBook(ctx context.Context, id uint) (*BookDetail, error) {
	var book models.Book
	if err := s.DB.WithContext(ctx).
		Preload("Category").
		Preload("Publisher").
		First(&book, id).Error; err != nil {
		return nil, errs.Storage(err)
	}

	authors, err := s.loadAuthors(ctx, []uint{book.ID}, true)
	if err != nil {
		return nil, err
	}

	return &BookDetail{
		BookDTO:    assemble(&book, authors[book.ID]),
		IsLowStock: book.IsLowStock(),
	}, nil
}

// Popular returns the top in-stock books by popularity, for the landing page.
func (s *Service) Popular(ctx context.Context, limit int) ([]BookDTO, error) {
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > 50 {
		limit = 50
	}

	var books []models.Book
	if err := s.DB.WithContext(ctx).Model(&models.Book{}).
		Where("stock > ?", 0).
		Preload("Category").
		Preload("Publisher").
		Order("popularity DESC, id ASC").
		Limit(limit).
		Find(&books).Error; err != nil {
		return nil, errs.Storage(err)
	}

	authors, err := s.loadAuthors(ctx, bookIDs(books), false)
	if err != nil {
		return nil, err
	}

	items := make([]BookDTO, len(books))
	for i := range books {
		items[i] = assemble(&books[i], authors[books[i].ID])
	}
	return items, nil
}

// Stats aggregates the unfiltered catalog.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{}

	db := s.DB.WithContext(ctx)
	if err := db.Model(&models.Book{}).Count(&st.TotalBooks).Error; err != nil {
		return nil, errs.Storage(err)
	}
	if err := db.Model(&models.Book{}).
		Where("category_id IS NOT NULL").
		Distinct("category_id").
		Count(&st.Categories).Error; err != nil {
		return nil, errs.Storage(err)
	}
	if err := db.Model(&models.Book{}).Where("stock > ?", 0).Count(&st.InStock).Error; err != nil {
		return nil, errs.Storage(err)
	}
	st.OutOfStock = st.TotalBooks - st.InStock

	if err := db.Model(&models.Book{}).
		Select("COALESCE(MIN(price), 0) AS min, COALESCE(AVG(price), 0) AS avg, COALESCE(MAX(price), 0) AS max").
		Scan(&st.Price).Error; err != nil {
		return nil, errs.Storage(err)
	}

	return st, nil
}

type bookAuthorRow struct {
	BookID   uint
	AuthorID uint
	Name     string
	Bio      string
}

// loadAuthors batch-loads the authors of a page of books through the join
// table in a single query, keyed by book id and ordered by the join row id.
func (s *Service) loadAuthors(ctx context.Context, ids []uint, withBio bool) (map[uint][]AuthorSummary, error) {
	out := make(map[uint][]AuthorSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []bookAuthorRow
	if err := s.DB.WithContext(ctx).
		Table("book_authors").
		Select("book_authors.book_id, authors.id AS author_id, authors.name, authors.bio").
		Joins("JOIN authors ON authors.id = book_authors.author_id").
		Where("book_authors.book_id IN ?", ids).
		Order("book_authors.book_id ASC, book_authors.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, errs.Storage(err)
	}

	for _, r := range rows {
		a := AuthorSummary{ID: r.AuthorID, Name: r.Name}
		if withBio {
			a.Bio = r.Bio
		}
		out[r.BookID] = append(out[r.BookID], a)
	}
	return out, nil
}

func assemble(b *models.Book, authors []AuthorSummary) BookDTO {
	dto := BookDTO{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Price:       b.Price,
		Stock:       b.Stock,
		InStock:     b.IsAvailable(),
		Popularity:  b.Popularity,
		Authors:     authors,
		CreatedAt:   b.CreatedAt,
	}
	if dto.Authors == nil {
		dto.Authors = []AuthorSummary{}
	}
	if b.Category != nil {
		dto.Category = &CategorySummary{ID: b.Category.ID, Name: b.Category.Name, Slug: b.Category.Slug}
	}
	if b.Publisher != nil {
		dto.Publisher = &PublisherSummary{ID: b.Publisher.ID, Name: b.Publisher.Name, Country: b.Publisher.Country}
	}
	return dto
}

func bookIDs(books []models.Book) []uint {
	ids := make([]uint, len(books))
	for i := range books {
		ids[i] = books[i].ID
	}
	return ids
}
