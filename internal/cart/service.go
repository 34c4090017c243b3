package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/bookstore/internal/errs"
	"github.com/Skotchmaster/bookstore/internal/models"
)

// ErrInsufficientStock rejects an add/update asking for more units than the
// book has on hand.
var ErrInsufficientStock = errors.New("insufficient stock")

type BookSummary struct {
	ID         uint    `json:"id"`
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
	Stock      int     `json:"stock"`
	Publisher  string  `json:"publisher,omitempty"`
	TotalPrice float64 `json:"total_price"`
}

type Line struct {
	ID       uint        `json:"id"`
	Quantity int         `json:"quantity"`
	AddedAt  time.Time   `json:"added_at"`
	Book     BookSummary `json:"book"`
}

type Cart struct {
	Lines      []Line  `json:"lines"`
	TotalItems int     `json:"total_items"`
	TotalPrice float64 `json:"total_price"`
}

type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Get returns the caller's cart, newest lines first, with totals.
func (s *Service) Get(ctx context.Context, userID uint) (*Cart, error) {
	var items []models.CartItem
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Book").
		Preload("Book.Publisher").
		Order("added_at DESC, id DESC").
		Find(&items).Error; err != nil {
		return nil, errs.Storage(err)
	}

	cart := &Cart{Lines: make([]Line, 0, len(items))}
	for i := range items {
		line := toLine(&items[i])
		cart.Lines = append(cart.Lines, line)
		cart.TotalItems += line.Quantity
		cart.TotalPrice += line.Book.TotalPrice
	}
	return cart, nil
}

// Add puts quantity units of a book into the caller's cart. The (user, book)
// line is unique; a concurrent insert losing the race against the unique
// constraint is converted into a quantity update instead of surfacing a
// conflict.
func (s *Service) Add(ctx context.Context, userID, bookID uint, quantity int) (*Line, error) {
	if quantity < 1 {
		quantity = 1
	}

	var lineID uint
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			return errs.Storage(err)
		}
		if book.Stock < quantity {
			return fmt.Errorf("%w: %d available", ErrInsufficientStock, book.Stock)
		}

		var item models.CartItem
		err := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&item).Error
		switch {
		case err == nil:
			return bumpQuantity(tx, &item, &book, quantity, &lineID)
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{UserID: userID, BookID: bookID, Quantity: quantity}
			if createErr := tx.Create(&item).Error; createErr != nil {
				if errs.IsDuplicate(createErr) {
					// lost the race: the line exists now, retry as update
					if err := tx.Where("user_id = ? AND book_id = ?", userID, bookID).
						First(&item).Error; err != nil {
						return errs.Storage(err)
					}
					return bumpQuantity(tx, &item, &book, quantity, &lineID)
				}
				return errs.Storage(createErr)
			}
			lineID = item.ID
			return nil
		default:
			return errs.Storage(err)
		}
	})
	if err != nil {
		return nil, err
	}

	return s.line(ctx, userID, lineID)
}

// UpdateLine sets the quantity of one of the caller's lines.
func (s *Service) UpdateLine(ctx context.Context, userID, lineID uint, quantity int) (*Line, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be >= 1", errs.ErrInvalidFilter)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		if err := tx.Where("id = ? AND user_id = ?", lineID, userID).
			Preload("Book").
			First(&item).Error; err != nil {
			return errs.Storage(err)
		}
		if item.Book == nil || item.Book.Stock < quantity {
			stock := 0
			if item.Book != nil {
				stock = item.Book.Stock
			}
			return fmt.Errorf("%w: %d available", ErrInsufficientStock, stock)
		}
		return errs.Storage(tx.Model(&item).Update("quantity", quantity).Error)
	})
	if err != nil {
		return nil, err
	}

	return s.line(ctx, userID, lineID)
}

// Remove deletes one of the caller's lines.
func (s *Service) Remove(ctx context.Context, userID, lineID uint) error {
	res := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", lineID, userID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return errs.Storage(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Clear drops every line of the caller's cart.
func (s *Service) Clear(ctx context.Context, userID uint) error {
	return errs.Storage(s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error)
}

func (s *Service) line(ctx context.Context, userID, lineID uint) (*Line, error) {
	var item models.CartItem
	if err := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", lineID, userID).
		Preload("Book").
		Preload("Book.Publisher").
		First(&item).Error; err != nil {
		return nil, errs.Storage(err)
	}
	line := toLine(&item)
	return &line, nil
}

func bumpQuantity(tx *gorm.DB, item *models.CartItem, book *models.Book, add int, lineID *uint) error {
	newQuantity := item.Quantity + add
	if book.Stock < newQuantity {
		return fmt.Errorf("%w: %d available, %d already in cart",
			ErrInsufficientStock, book.Stock, item.Quantity)
	}
	if err := tx.Model(item).Update("quantity", newQuantity).Error; err != nil {
		return errs.Storage(err)
	}
	*lineID = item.ID
	return nil
}

func toLine(item *models.CartItem) Line {
	line := Line{
		ID:       item.ID,
		Quantity: item.Quantity,
		AddedAt:  item.AddedAt,
	}
	if item.Book != nil {
		line.Book = BookSummary{
			ID:         item.Book.ID,
			Title:      item.Book.Title,
			Price:      item.Book.Price,
			Stock:      item.Book.Stock,
			TotalPrice: item.Book.Price * float64(item.Quantity),
		}
		if item.Book.Publisher != nil {
			line.Book.Publisher = item.Book.Publisher.Name
		}
	}
	return line
}
