package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookstore/internal/catalog"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/testutil"
)

func newCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db, Catalog: catalog.NewService(db)}
}

func TestGetCategoriesWithCounts(t *testing.T) {
	db := testutil.OpenDB(t)
	cat := seedBooks(t, db)
	testutil.MustCreate(t, db, &models.Category{Name: "Поэзия", Slug: "poetry"})
	h := newCategoryHandler(db)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/categories", "")
	require.NoError(t, h.GetCategories(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []struct {
			ID         uint   `json:"id"`
			Name       string `json:"name"`
			BooksCount int64  `json:"books_count"`
		} `json:"items"`
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.EqualValues(t, 2, resp.Total)

	counts := map[uint]int64{}
	for _, it := range resp.Items {
		counts[it.ID] = it.BooksCount
	}
	assert.EqualValues(t, 3, counts[cat.ID])
}

func TestGetCategoriesSearch(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.MustCreate(t, db, &models.Category{Name: "Science Fiction", Slug: "sci-fi"})
	testutil.MustCreate(t, db, &models.Category{Name: "Poetry", Slug: "poetry"})
	h := newCategoryHandler(db)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/categories?search=FICTION", "")
	require.NoError(t, h.GetCategories(c))

	var resp struct {
		Items []struct {
			Slug string `json:"slug"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "sci-fi", resp.Items[0].Slug)
}

func TestGetCategoryBooksDefaults(t *testing.T) {
	db := testutil.OpenDB(t)
	cat := seedBooks(t, db)
	h := newCategoryHandler(db)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/categories/1/books", "")
	c.SetParamNames("id")
	c.SetParamValues(itoa(cat.ID))
	require.NoError(t, h.GetCategoryBooks(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Category struct {
			Slug string `json:"slug"`
		} `json:"category"`
		Books struct {
			Items []struct {
				Title string `json:"title"`
			} `json:"items"`
			Total int64 `json:"total"`
		} `json:"books"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "sci-fi", resp.Category.Slug)
	assert.EqualValues(t, 3, resp.Books.Total, "category pages show sold-out books too")
	require.Len(t, resp.Books.Items, 3)
	assert.Equal(t, "Непобедимый", resp.Books.Items[0].Title, "title ascending by default")
}

func TestGetCategoryBooksUnknownCategory(t *testing.T) {
	db := testutil.OpenDB(t)
	h := newCategoryHandler(db)

	c, _ := newTestContext(t, http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("99999")
	he := httpError(t, h.GetCategoryBooks(c))
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestCreateCategory(t *testing.T) {
	db := testutil.OpenDB(t)
	h := newCategoryHandler(db)

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/admin/categories",
		`{"name":"Детективы","slug":" Detective "}`)
	require.NoError(t, h.CreateCategory(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var cat models.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cat))
	assert.Equal(t, "detective", cat.Slug, "slug is trimmed and lowered")

	// same slug again conflicts
	c, _ = newTestContext(t, http.MethodPost, "/api/v1/admin/categories",
		`{"name":"Другое","slug":"detective"}`)
	he := httpError(t, h.CreateCategory(c))
	assert.Equal(t, http.StatusConflict, he.Code)

	c, _ = newTestContext(t, http.MethodPost, "/api/v1/admin/categories", `{"name":"","slug":""}`)
	he = httpError(t, h.CreateCategory(c))
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestDeleteCategory(t *testing.T) {
	db := testutil.OpenDB(t)
	cat := seedBooks(t, db)
	empty := testutil.MustCreate(t, db, &models.Category{Name: "Поэзия", Slug: "poetry"})
	h := newCategoryHandler(db)

	// a category with books refuses deletion
	c, _ := newTestContext(t, http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(itoa(cat.ID))
	he := httpError(t, h.DeleteCategory(c))
	assert.Equal(t, http.StatusBadRequest, he.Code)

	c, rec := newTestContext(t, http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(itoa(empty.ID))
	require.NoError(t, h.DeleteCategory(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, _ = newTestContext(t, http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(itoa(empty.ID))
	he = httpError(t, h.DeleteCategory(c))
	assert.Equal(t, http.StatusNotFound, he.Code)
}
