package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookstore/internal/errs"
	"github.com/Skotchmaster/bookstore/internal/logging"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/util"
)

type AuthorHandler struct {
	DB *gorm.DB
}

func (h *AuthorHandler) GetAuthors(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "authors.list")

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), 20)
	offset, limit := util.Calculate(page, size)

	q := h.DB.WithContext(ctx).Model(&models.Author{})
	if t := c.QueryParam("authorType"); t != "" {
		if !models.ValidAuthorType(t) {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown authorType")
		}
		q = q.Where("author_type = ?", t)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		l.Error("list_authors_failed", "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(errs.Storage(err)), "cannot list authors")
	}

	var authors []models.Author
	if err := q.Order("name ASC").Offset(offset).Limit(limit).Find(&authors).Error; err != nil {
		l.Error("list_authors_failed", "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(errs.Storage(err)), "cannot list authors")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"items":       authors,
		"page":        page,
		"limit":       limit,
		"total":       total,
		"total_pages": util.TotalPages(total, limit),
	})
}

func (h *AuthorHandler) GetAuthor(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "authors.get")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid author id")
	}

	var author models.Author
	if err := h.DB.WithContext(ctx).First(&author, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "author not found")
		}
		l.Error("get_author_failed", "author_id", id, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(errs.Storage(err)), "cannot get author")
	}

	var books []models.Book
	if err := h.DB.WithContext(ctx).Model(&models.Book{}).
		Joins("JOIN book_authors ON book_authors.book_id = books.id").
		Where("book_authors.author_id = ?", author.ID).
		Order("books.title ASC").
		Find(&books).Error; err != nil {
		l.Error("get_author_failed", "author_id", id, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(errs.Storage(err)), "cannot get author")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"author": author,
		"books":  books,
	})
}

func (h *AuthorHandler) CreateAuthor(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "authors.create")

	var req struct {
		Name       string `json:"name"`
		Bio        string `json:"bio"`
		AuthorType string `json:"author_type"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if req.AuthorType == "" {
		req.AuthorType = models.AuthorTypeRussian
	}
	if !models.ValidAuthorType(req.AuthorType) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown author_type")
	}

	author := models.Author{Name: req.Name, Bio: req.Bio, AuthorType: req.AuthorType}
	if err := h.DB.WithContext(ctx).Create(&author).Error; err != nil {
		l.Error("create_author_failed", "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(errs.Storage(err)), "cannot create author")
	}

	return c.JSON(http.StatusCreated, author)
}

func (h *AuthorHandler) UpdateAuthor(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "authors.update")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid author id")
	}

	var req struct {
		Name       *string `json:"name"`
		Bio        *string `json:"bio"`
		AuthorType *string `json:"author_type"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var author models.Author
	if err := h.DB.WithContext(ctx).First(&author, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "author not found")
		}
		l.Error("update_author_failed", "author_id", id, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(errs.Storage(err)), "cannot update author")
	}

	if req.Name != nil {
		author.Name = strings.TrimSpace(*req.Name)
	}
	if req.Bio != nil {
		author.Bio = *req.Bio
	}
	if req.AuthorType != nil {
		if !models.ValidAuthorType(*req.AuthorType) {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown author_type")
		}
		author.AuthorType = *req.AuthorType
	}

	if err := h.DB.WithContext(ctx).Save(&author).Error; err != nil {
		l.Error("update_author_failed", "author_id", id, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(errs.Storage(err)), "cannot update author")
	}

	return c.JSON(http.StatusOK, author)
}
