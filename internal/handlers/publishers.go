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

type PublisherHandler struct {
	DB *gorm.DB
}

func (h *PublisherHandler) GetPublishers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "publishers.list")

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), 20)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.WithContext(ctx).Model(&models.Publisher{}).Count(&total).Error; err != nil {
		l.Error("list_publishers_failed", "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(errs.Storage(err)), "cannot list publishers")
	}

	var publishers []models.Publisher
	if err := h.DB.WithContext(ctx).Model(&models.Publisher{}).
		Order("name ASC").Offset(offset).Limit(limit).
		Find(&publishers).Error; err != nil {
		l.Error("list_publishers_failed", "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(errs.Storage(err)), "cannot list publishers")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"items":       publishers,
		"page":        page,
		"limit":       limit,
		"total":       total,
		"total_pages": util.TotalPages(total, limit),
	})
}

func (h *PublisherHandler) GetPublisher(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "publishers.get")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid publisher id")
	}

	var pub models.Publisher
	if err := h.DB.WithContext(ctx).First(&pub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "publisher not found")
		}
		l.Error("get_publisher_failed", "publisher_id", id, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(errs.Storage(err)), "cannot get publisher")
	}

	return c.JSON(http.StatusOK, pub)
}

func (h *PublisherHandler) CreatePublisher(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "publishers.create")

	var req struct {
		Name         string `json:"name"`
		Website      string `json:"website"`
		ContactEmail string `json:"contact_email"`
		FoundedYear  int    `json:"founded_year"`
		Country      string `json:"country"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	pub := models.Publisher{
		Name:         req.Name,
		Website:      req.Website,
		ContactEmail: req.ContactEmail,
		FoundedYear:  req.FoundedYear,
		Country:      req.Country,
	}
	if err := h.DB.WithContext(ctx).Create(&pub).Error; err != nil {
		if errs.IsDuplicate(err) {
			return echo.NewHTTPError(http.StatusConflict, "publisher with this name already exists")
		}
		l.Error("create_publisher_failed", "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(errs.Storage(err)), "cannot create publisher")
	}

	return c.JSON(http.StatusCreated, pub)
}

func (h *PublisherHandler) UpdatePublisher(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "publishers.update")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid publisher id")
	}

	var req struct {
		Name         *string `json:"name"`
		Website      *string `json:"website"`
		ContactEmail *string `json:"contact_email"`
		FoundedYear  *int    `json:"founded_year"`
		Country      *string `json:"country"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var pub models.Publisher
	if err := h.DB.WithContext(ctx).First(&pub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "publisher not found")
		}
		l.Error("update_publisher_failed", "publisher_id", id, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(errs.Storage(err)), "cannot update publisher")
	}

	if req.Name != nil {
		pub.Name = strings.TrimSpace(*req.Name)
	}
	if req.Website != nil {
		pub.Website = *req.Website
	}
	if req.ContactEmail != nil {
		pub.ContactEmail = *req.ContactEmail
	}
	if req.FoundedYear != nil {
		pub.FoundedYear = *req.FoundedYear
	}
	if req.Country != nil {
		pub.Country = *req.Country
	}

	if err := h.DB.WithContext(ctx).Save(&pub).Error; err != nil {
		if errs.IsDuplicate(err) {
			return echo.NewHTTPError(http.StatusConflict, "publisher with this name already exists")
		}
		l.Error("update_publisher_failed", "publisher_id", id, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(errs.Storage(err)), "cannot update publisher")
	}

	return c.JSON(http.StatusOK, pub)
}

// DeletePublisher clears the publisher reference on its books (set null) and
// removes the row; books survive without a publisher.
func (h *PublisherHandler) DeletePublisher(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "publishers.delete")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid publisher id")
	}

	err = h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Book{}).
			Where("publisher_id = ?", id).
			Update("publisher_id", nil).Error; err != nil {
			return errs.Storage(err)
		}
		res := tx.Delete(&models.Publisher{}, id)
		if res.Error != nil {
			return errs.Storage(res.Error)
		}
		if res.RowsAffected == 0 {
			return errs.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "publisher not found")
		}
		l.Error("delete_publisher_failed", "publisher_id", id, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(err), "cannot delete publisher")
	}

	return c.NoContent(http.StatusNoContent)
}
