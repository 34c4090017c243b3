package wishlist

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/bookstore/internal/cart"
	"github.com/Skotchmaster/bookstore/internal/errs"
	"github.com/Skotchmaster/bookstore/internal/models"
)

type Item struct {
	ID      uint      `json:"id"`
	AddedAt time.Time `json:"added_at"`
	Book    struct {
		ID        uint    `json:"id"`
		Title     string  `json:"title"`
		Price     float64 `json:"price"`
		InStock   bool    `json:"in_stock"`
		Publisher string  `json:"publisher,omitempty"`
	} `json:"book"`
}

type Service struct {
	DB   *gorm.DB
	Cart *cart.Service
}

func NewService(db *gorm.DB, cartSvc *cart.Service) *Service {
	return &Service{DB: db, Cart: cartSvc}
}

func (s *Service) Get(ctx context.Context, userID uint) ([]Item, error) {
	var items []models.WishlistItem
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Book").
		Preload("Book.Publisher").
		Order("added_at DESC, id DESC").
		Find(&items).Error; err != nil {
		return nil, errs.Storage(err)
	}

	out := make([]Item, 0, len(items))
	for i := range items {
		out = append(out, toItem(&items[i]))
	}
	return out, nil
}

// Add is idempotent per (user, book): adding a book already on the list
// returns the existing item.
func (s *Service) Add(ctx context.Context, userID, bookID uint) (*Item, error) {
	var book models.Book
	if err := s.DB.WithContext(ctx).First(&book, bookID).Error; err != nil {
		return nil, errs.Storage(err)
	}

	item := models.WishlistItem{UserID: userID, BookID: bookID}
	if err := s.DB.WithContext(ctx).Create(&item).Error; err != nil {
		if !errs.IsDuplicate(err) {
			return nil, errs.Storage(err)
		}
		if err := s.DB.WithContext(ctx).
			Where("user_id = ? AND book_id = ?", userID, bookID).
			First(&item).Error; err != nil {
			return nil, errs.Storage(err)
		}
	}

	return s.item(ctx, userID, item.ID)
}

func (s *Service) Remove(ctx context.Context, userID, itemID uint) error {
	res := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.WishlistItem{})
	if res.Error != nil {
		return errs.Storage(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// MoveToCart puts the wished book into the cart through the same upsert path
// the cart uses, then drops the wishlist item.
func (s *Service) MoveToCart(ctx context.Context, userID, itemID uint, quantity int) (*cart.Line, error) {
	var item models.WishlistItem
	if err := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		First(&item).Error; err != nil {
		return nil, errs.Storage(err)
	}

	line, err := s.Cart.Add(ctx, userID, item.BookID, quantity)
	if err != nil {
		return nil, err
	}

	if err := s.Remove(ctx, userID, itemID); err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	return line, nil
}

func (s *Service) item(ctx context.Context, userID, itemID uint) (*Item, error) {
	var item models.WishlistItem
	if err := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Preload("Book").
		Preload("Book.Publisher").
		First(&item).Error; err != nil {
		return nil, errs.Storage(err)
	}
	out := toItem(&item)
	return &out, nil
}

func toItem(item *models.WishlistItem) Item {
	out := Item{ID: item.ID, AddedAt: item.AddedAt}
	if item.Book != nil {
		out.Book.ID = item.Book.ID
		out.Book.Title = item.Book.Title
		out.Book.Price = item.Book.Price
		out.Book.InStock = item.Book.IsAvailable()
		if item.Book.Publisher != nil {
			out.Book.Publisher = item.Book.Publisher.Name
		}
	}
	return out
}
