package handlers

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookstore/internal/errs"
	"github.com/Skotchmaster/bookstore/internal/logging"
	"github.com/Skotchmaster/bookstore/internal/search"
	"github.com/Skotchmaster/bookstore/internal/util"
)

type SearchHandler struct {
	ES    *elasticsearch.Client
	DB    *gorm.DB
	Index string
}

func (h *SearchHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.query")

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	from, size := util.Calculate(page, size)

	total, hits, err := search.Search(ctx, h.ES, h.Index, q, from, size)
	if err != nil {
		l.Error("search_failed", "query", q, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(err), "search unavailable")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"total": total,
		"items": hits,
	})
}

func (h *SearchHandler) Reindex(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.reindex")

	n, err := search.Reindex(ctx, h.ES, h.Index, h.DB)
	if err != nil {
		l.Error("reindex_failed", "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(err), "reindex failed")
	}

	l.Info("reindex_done", "indexed", n)
	return c.JSON(http.StatusOK, map[string]any{"indexed": n})
}
