package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookstore/internal/catalog"
	"github.com/Skotchmaster/bookstore/internal/errs"
	"github.com/Skotchmaster/bookstore/internal/logging"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/util"
)

type CategoryHandler struct {
	DB      *gorm.DB
	Catalog *catalog.Service
}

type categoryDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	BooksCount  int64  `json:"books_count"`
}

func (h *CategoryHandler) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "categories.list")

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), 20)
	offset, limit := util.Calculate(page, size)

	q := h.DB.WithContext(ctx).Model(&models.Category{})
	if search := strings.TrimSpace(c.QueryParam("search")); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		l.Error("list_categories_failed", "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(errs.Storage(err)), "cannot list categories")
	}

	var categories []models.Category
	if err := q.Order("name ASC").Offset(offset).Limit(limit).Find(&categories).Error; err != nil {
		l.Error("list_categories_failed", "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(errs.Storage(err)), "cannot list categories")
	}

	counts, err := h.bookCounts(ctx, categories)
	if err != nil {
		l.Error("list_categories_failed", "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(err), "cannot list categories")
	}

	items := make([]categoryDTO, len(categories))
	for i, cat := range categories {
		items[i] = categoryDTO{
			ID:          cat.ID,
			Name:        cat.Name,
			Slug:        cat.Slug,
			Description: cat.Description,
			BooksCount:  counts[cat.ID],
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"items":       items,
		"page":        page,
		"limit":       limit,
		"total":       total,
		"total_pages": util.TotalPages(total, limit),
	})
}

func (h *CategoryHandler) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "categories.get")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	var cat models.Category
	if err := h.DB.WithContext(ctx).First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "category not found")
		}
		l.Error("get_category_failed", "category_id", id, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(errs.Storage(err)), "cannot get category")
	}

	return c.JSON(http.StatusOK, cat)
}

// GetCategoryBooks lists one category's books through the catalog engine, so
// filtering and pagination behave exactly like the main listing.
func (h *CategoryHandler) GetCategoryBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "categories.books")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	var cat models.Category
	if err := h.DB.WithContext(ctx).First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "category not found")
		}
		l.Error("get_category_failed", "category_id", id, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(errs.Storage(err)), "cannot get category")
	}

	raw, err := parseCatalogFilter(c)
	if err != nil {
		return err
	}
	categoryID := cat.ID
	raw.Category = &categoryID
	if raw.SortBy == nil {
		sortBy, sortOrder := string(catalog.SortTitle), string(catalog.SortAsc)
		raw.SortBy, raw.SortOrder = &sortBy, &sortOrder
	}
	if raw.InStock == nil {
		inStock := false
		raw.InStock = &inStock
	}

	page, err := h.Catalog.List(ctx, raw)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidFilter) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("category_books_failed", "category_id", id, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(err), "cannot list category books")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"category": categoryDTO{ID: cat.ID, Name: cat.Name, Slug: cat.Slug, Description: cat.Description},
		"books":    page,
	})
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "categories.create")

	var req struct {
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	if req.Name == "" || req.Slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and slug are required")
	}

	cat := models.Category{Name: req.Name, Slug: req.Slug, Description: strings.TrimSpace(req.Description)}
	if err := h.DB.WithContext(ctx).Create(&cat).Error; err != nil {
		if errs.IsDuplicate(err) {
			return echo.NewHTTPError(http.StatusConflict, "category with this name or slug already exists")
		}
		l.Error("create_category_failed", "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(errs.Storage(err)), "cannot create category")
	}

	return c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "categories.update")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	var req struct {
		Name        *string `json:"name"`
		Slug        *string `json:"slug"`
		Description *string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var cat models.Category
	if err := h.DB.WithContext(ctx).First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "category not found")
		}
		l.Error("update_category_failed", "category_id", id, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(errs.Storage(err)), "cannot update category")
	}

	if req.Name != nil {
		cat.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		cat.Slug = strings.ToLower(strings.TrimSpace(*req.Slug))
	}
	if req.Description != nil {
		cat.Description = strings.TrimSpace(*req.Description)
	}

	if err := h.DB.WithContext(ctx).Save(&cat).Error; err != nil {
		if errs.IsDuplicate(err) {
			return echo.NewHTTPError(http.StatusConflict, "category with this name or slug already exists")
		}
		l.Error("update_category_failed", "category_id", id, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(errs.Storage(err)), "cannot update category")
	}

	return c.JSON(http.StatusOK, cat)
}

// DeleteCategory refuses to orphan books: a category still referenced by any
// book cannot be removed.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "categories.delete")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	var booksCount int64
	if err := h.DB.WithContext(ctx).Model(&models.Book{}).
		Where("category_id = ?", id).Count(&booksCount).Error; err != nil {
		l.Error("delete_category_failed", "category_id", id, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(errs.Storage(err)), "cannot delete category")
	}
	if booksCount > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "category still has books")
	}

	res := h.DB.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		l.Error("delete_category_failed", "category_id", id, "error", res.Error)
		return echo.NewHTTPError(errs.HTTPStatus(errs.Storage(res.Error)), "cannot delete category")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "category not found")
	}

	return c.NoContent(http.StatusNoContent)
}

// bookCounts batch-counts books per category for one page of categories.
func (h *CategoryHandler) bookCounts(ctx context.Context, categories []models.Category) (map[uint]int64, error) {
	out := make(map[uint]int64, len(categories))
	if len(categories) == 0 {
		return out, nil
	}

	ids := make([]uint, len(categories))
	for i, cat := range categories {
		ids[i] = cat.ID
	}

	var rows []struct {
		CategoryID uint
		Count      int64
	}
	if err := h.DB.WithContext(ctx).Model(&models.Book{}).
		Select("category_id, COUNT(*) AS count").
		Where("category_id IN ?", ids).
		Group("category_id").
		Scan(&rows).Error; err != nil {
		return nil, errs.Storage(err)
	}

	for _, r := range rows {
		out[r.CategoryID] = r.Count
	}
	return out, nil
}
