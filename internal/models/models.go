package models

import (
	"time"
)

const (
	AuthorTypeRussian = "russian"
	AuthorTypeForeign = "foreign"
)

type Book struct {
	ID          uint       `gorm:"primaryKey;autoIncrement"                           json:"id"`
	Title       string     `gorm:"size:500;not null;index"                            json:"title"`
	Description string     `json:"description"`
	Price       float64    `gorm:"type:decimal(10,2);not null;index;check:price >= 0" json:"price"`
	Stock       int        `gorm:"not null;default:0;index;check:stock >= 0"          json:"stock"`
	Popularity  int        `gorm:"not null;default:0;index"                           json:"popularity"`
	CategoryID  *uint      `gorm:"index"                                              json:"category_id"`
	PublisherID *uint      `gorm:"index"                                              json:"publisher_id"`
	Category    *Category  `gorm:"constraint:OnDelete:RESTRICT"                       json:"category,omitempty"`
	Publisher   *Publisher `gorm:"constraint:OnDelete:SET NULL"                       json:"publisher,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:100;unique;not null" json:"name"`
	Slug        string    `gorm:"size:100;unique;not null" json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Publisher struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"size:200;unique;not null" json:"name"`
	Website      string    `json:"website"`
	ContactEmail string    `json:"contact_email"`
	FoundedYear  int       `json:"founded_year"`
	Country      string    `gorm:"size:100"                 json:"country"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Author struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"         json:"id"`
	Name       string    `gorm:"size:100;not null"                json:"name"`
	Bio        string    `json:"bio"`
	AuthorType string    `gorm:"size:20;not null;default:russian" json:"author_type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BookAuthor links books and authors; each pairing is recorded at most once.
type BookAuthor struct {
	ID       uint    `gorm:"primaryKey;autoIncrement"             json:"id"`
	BookID   uint    `gorm:"not null;uniqueIndex:idx_book_author" json:"book_id"`
	AuthorID uint    `gorm:"not null;uniqueIndex:idx_book_author" json:"author_id"`
	Book     *Book   `gorm:"constraint:OnDelete:CASCADE"          json:"-"`
	Author   *Author `gorm:"constraint:OnDelete:CASCADE"          json:"-"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type CartItem struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"                json:"id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_cart_user_book" json:"user_id"`
	BookID   uint      `gorm:"not null;uniqueIndex:idx_cart_user_book" json:"book_id"`
	Quantity int       `gorm:"not null;default:1;check:quantity > 0"   json:"quantity"`
	AddedAt  time.Time `gorm:"not null;autoCreateTime"                 json:"added_at"`
	User     *User     `gorm:"constraint:OnDelete:CASCADE"             json:"-"`
	Book     *Book     `gorm:"constraint:OnDelete:CASCADE"             json:"-"`
}

type WishlistItem struct {
	ID      uint      `gorm:"primaryKey;autoIncrement"                    json:"id"`
	UserID  uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_book" json:"user_id"`
	BookID  uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_book" json:"book_id"`
	AddedAt time.Time `gorm:"not null;autoCreateTime"                     json:"added_at"`
	User    *User     `gorm:"constraint:OnDelete:CASCADE"                 json:"-"`
	Book    *Book     `gorm:"constraint:OnDelete:CASCADE"                 json:"-"`
}

func (b *Book) IsAvailable() bool {
	return b.Stock > 0
}

func (b *Book) IsLowStock() bool {
	return b.Stock > 0 && b.Stock <= 5
}

func ValidAuthorType(t string) bool {
	return t == AuthorTypeRussian || t == AuthorTypeForeign
}
