package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookstore/internal/catalog"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/testutil"
)

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func itoa(v uint) string { return strconv.FormatUint(uint64(v), 10) }

func httpError(t *testing.T, err error) *echo.HTTPError {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he
}

func seedBooks(t *testing.T, db *gorm.DB) models.Category {
	t.Helper()
	cat := testutil.MustCreate(t, db, &models.Category{Name: "Фантастика", Slug: "sci-fi"})
	for _, b := range []models.Book{
		{Title: "Солярис", Price: 100, Stock: 3, Popularity: 50, CategoryID: &cat.ID},
		{Title: "Непобедимый", Price: 200, Stock: 7, Popularity: 20, CategoryID: &cat.ID},
		{Title: "Эдем", Price: 50, Stock: 0, Popularity: 10, CategoryID: &cat.ID},
	} {
		book := b
		testutil.MustCreate(t, db, &book)
	}
	return *cat
}

func TestGetBooksEnvelope(t *testing.T) {
	db := testutil.OpenDB(t)
	seedBooks(t, db)
	h := &BookHandler{Svc: catalog.NewService(db)}

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/books?sortBy=price&sortOrder=asc&limit=1", "")
	require.NoError(t, h.GetBooks(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Items []struct {
			Title string `json:"title"`
		} `json:"items"`
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int   `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))

	require.Len(t, page.Items, 1)
	assert.Equal(t, "Солярис", page.Items[0].Title)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.Limit)
	assert.EqualValues(t, 2, page.Total, "out-of-stock book hidden by default")
	assert.Equal(t, 2, page.TotalPages)
}

func TestGetBooksRejectsContradictoryFilter(t *testing.T) {
	db := testutil.OpenDB(t)
	h := &BookHandler{Svc: catalog.NewService(db)}

	c, _ := newTestContext(t, http.MethodGet, "/api/v1/books?minPrice=300&maxPrice=100", "")
	he := httpError(t, h.GetBooks(c))
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestGetBooksRejectsMalformedParams(t *testing.T) {
	db := testutil.OpenDB(t)
	h := &BookHandler{Svc: catalog.NewService(db)}

	for _, target := range []string{
		"/api/v1/books?page=abc",
		"/api/v1/books?limit=abc",
		"/api/v1/books?category=-1",
		"/api/v1/books?minPrice=cheap",
		"/api/v1/books?inStock=maybe",
		"/api/v1/books?sortBy=stock",
		"/api/v1/books?limit=101",
	} {
		c, _ := newTestContext(t, http.MethodGet, target, "")
		he := httpError(t, h.GetBooks(c))
		assert.Equal(t, http.StatusBadRequest, he.Code, target)
	}
}

func TestGetBookByID(t *testing.T) {
	db := testutil.OpenDB(t)
	seedBooks(t, db)
	h := &BookHandler{Svc: catalog.NewService(db)}

	var book models.Book
	require.NoError(t, db.Where("title = ?", "Солярис").First(&book).Error)

	c, rec := newTestContext(t, http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("99999")
	he := httpError(t, h.GetBook(c))
	assert.Equal(t, http.StatusNotFound, he.Code)

	c, rec = newTestContext(t, http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	he = httpError(t, h.GetBook(c))
	assert.Equal(t, http.StatusBadRequest, he.Code)

	c, rec = newTestContext(t, http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(itoa(book.ID))
	require.NoError(t, h.GetBook(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var detail struct {
		Title      string `json:"title"`
		IsLowStock bool   `json:"is_low_stock"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "Солярис", detail.Title)
	assert.True(t, detail.IsLowStock)
}

func TestGetPopularBooks(t *testing.T) {
	db := testutil.OpenDB(t)
	seedBooks(t, db)
	h := &BookHandler{Svc: catalog.NewService(db)}

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/books/popular?limit=5", "")
	require.NoError(t, h.GetPopularBooks(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []struct {
			Title      string `json:"title"`
			Popularity int    `json:"popularity"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Солярис", resp.Items[0].Title)
}

func TestGetBooksStats(t *testing.T) {
	db := testutil.OpenDB(t)
	seedBooks(t, db)
	h := &BookHandler{Svc: catalog.NewService(db)}

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/books/stats", "")
	require.NoError(t, h.GetBooksStats(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		TotalBooks int64 `json:"total_books"`
		InStock    int64 `json:"in_stock"`
		OutOfStock int64 `json:"out_of_stock"`
		Price      struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"price"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.EqualValues(t, 3, stats.TotalBooks)
	assert.EqualValues(t, 2, stats.InStock)
	assert.EqualValues(t, 1, stats.OutOfStock)
	assert.Equal(t, 50.0, stats.Price.Min)
	assert.Equal(t, 200.0, stats.Price.Max)
}
