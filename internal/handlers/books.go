package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/catalog"
	"github.com/Skotchmaster/bookstore/internal/errs"
	"github.com/Skotchmaster/bookstore/internal/logging"
)

type BookHandler struct {
	Svc *catalog.Service
}

// GetBooks serves the filtered, sorted, paginated catalog listing.
func (h *BookHandler) GetBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "books.list")

	raw, err := parseCatalogFilter(c)
	if err != nil {
		return err
	}

	page, err := h.Svc.List(ctx, raw)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidFilter) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("list_books_failed", "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(err), "cannot list books")
	}

	return c.JSON(http.StatusOK, page)
}

func (h *BookHandler) GetBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "books.get")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	book, err := h.Svc.GetBook(ctx, uint(id))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "book not found")
		}
		l.Error("get_book_failed", "book_id", id, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(err), "cannot get book")
	}

	return c.JSON(http.StatusOK, book)
}

func (h *BookHandler) GetPopularBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "books.popular")

	limit := parseIntDefault(c.QueryParam("limit"), 10)

	items, err := h.Svc.Popular(ctx, limit)
	if err != nil {
		l.Error("popular_books_failed", "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(err), "cannot get popular books")
	}

	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

func (h *BookHandler) GetBooksStats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "books.stats")

	stats, err := h.Svc.Stats(ctx)
	if err != nil {
		l.Error("books_stats_failed", "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(err), "cannot get stats")
	}

	return c.JSON(http.StatusOK, stats)
}

// parseCatalogFilter does the type-level parsing of the query string; the
// cross-field checks live in catalog.Normalize.
func parseCatalogFilter(c echo.Context) (catalog.RawFilter, error) {
	var raw catalog.RawFilter
	var err error

	if raw.Page, err = intParam(c, "page"); err != nil {
		return raw, err
	}
	if raw.Limit, err = intParam(c, "limit"); err != nil {
		return raw, err
	}
	if raw.Category, err = uintParam(c, "category"); err != nil {
		return raw, err
	}
	if raw.Publisher, err = uintParam(c, "publisher"); err != nil {
		return raw, err
	}
	if raw.MinPrice, err = floatParam(c, "minPrice"); err != nil {
		return raw, err
	}
	if raw.MaxPrice, err = floatParam(c, "maxPrice"); err != nil {
		return raw, err
	}
	if raw.InStock, err = boolParam(c, "inStock"); err != nil {
		return raw, err
	}
	raw.Search = strParam(c, "search")
	raw.SortBy = strParam(c, "sortBy")
	raw.SortOrder = strParam(c, "sortOrder")

	return raw, nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func strParam(c echo.Context, name string) *string {
	if v := c.QueryParam(name); v != "" {
		return &v
	}
	return nil
}

func intParam(c echo.Context, name string) (*int, error) {
	s := c.QueryParam(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return &v, nil
}

func uintParam(c echo.Context, name string) (*uint, error) {
	s := c.QueryParam(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	u := uint(v)
	return &u, nil
}

func floatParam(c echo.Context, name string) (*float64, error) {
	s := c.QueryParam(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a number")
	}
	return &v, nil
}

func boolParam(c echo.Context, name string) (*bool, error) {
	s := c.QueryParam(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a boolean")
	}
	return &v, nil
}
