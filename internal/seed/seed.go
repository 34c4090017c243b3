package seed

import (
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookstore/internal/hash"
	"github.com/Skotchmaster/bookstore/internal/models"
)

func ptr(v uint) *uint { return &v }

// Demo loads a small catalog for local development. Idempotent: it does
// nothing when books already exist.
func Demo(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Book{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []models.Category{
		{Name: "Классика", Slug: "classic"},
		{Name: "Фантастика", Slug: "sci-fi"},
		{Name: "Детективы", Slug: "detective"},
	}
	if err := db.Create(&categories).Error; err != nil {
		return err
	}

	publishers := []models.Publisher{
		{Name: "АСТ", Country: "Россия"},
		{Name: "Эксмо", Country: "Россия", Website: "https://eksmo.ru"},
	}
	if err := db.Create(&publishers).Error; err != nil {
		return err
	}

	authors := []models.Author{
		{Name: "Фёдор Достоевский", AuthorType: models.AuthorTypeRussian},
		{Name: "Михаил Булгаков", AuthorType: models.AuthorTypeRussian},
		{Name: "Станислав Лем", AuthorType: models.AuthorTypeForeign},
		{Name: "Агата Кристи", AuthorType: models.AuthorTypeForeign},
	}
	if err := db.Create(&authors).Error; err != nil {
		return err
	}

	books := []models.Book{
		{Title: "Преступление и наказание", Price: 450, Stock: 12, Popularity: 40, CategoryID: ptr(categories[0].ID), PublisherID: ptr(publishers[0].ID)},
		{Title: "Мастер и Маргарита", Price: 520, Stock: 8, Popularity: 55, CategoryID: ptr(categories[0].ID), PublisherID: ptr(publishers[1].ID)},
		{Title: "Солярис", Price: 380, Stock: 0, Popularity: 25, CategoryID: ptr(categories[1].ID), PublisherID: ptr(publishers[0].ID)},
		{Title: "Убийство в «Восточном экспрессе»", Price: 410, Stock: 5, Popularity: 30, CategoryID: ptr(categories[2].ID), PublisherID: ptr(publishers[1].ID)},
	}
	if err := db.Create(&books).Error; err != nil {
		return err
	}

	links := []models.BookAuthor{
		{BookID: books[0].ID, AuthorID: authors[0].ID},
		{BookID: books[1].ID, AuthorID: authors[1].ID},
		{BookID: books[2].ID, AuthorID: authors[2].ID},
		{BookID: books[3].ID, AuthorID: authors[3].ID},
	}
	if err := db.Create(&links).Error; err != nil {
		return err
	}

	passwordHash, err := hash.HashPassword("password")
	if err != nil {
		return err
	}
	return db.Create(&models.User{Username: "demo", PasswordHash: passwordHash, Role: "user"}).Error
}
