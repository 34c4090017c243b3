package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/errs"
	"github.com/Skotchmaster/bookstore/internal/identity"
	"github.com/Skotchmaster/bookstore/internal/logging"
	"github.com/Skotchmaster/bookstore/internal/mykafka"
)

type CartHandler struct {
	Svc       *Service
	Producer  *mykafka.Producer
	JWTSecret []byte
}

func (h *CartHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "cart_events", fmt.Sprint(event["userID"]), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "error", err)
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := identity.GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	cart, err := h.Svc.Get(ctx, userID)
	if err != nil {
		l.Error("get_cart_failed", "user_id", userID, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(err), "cannot get cart")
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := identity.GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	var req struct {
		BookID   uint `json:"book_id"`
		Quantity int  `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.BookID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "book_id is required")
	}

	line, err := h.Svc.Add(ctx, userID, req.BookID, req.Quantity)
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "book not found")
		}
		l.Error("add_to_cart_failed", "user_id", userID, "book_id", req.BookID, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(err), "cannot add to cart")
	}

	h.publish(c, map[string]any{
		"type":     "cart_line_added",
		"userID":   userID,
		"bookID":   req.BookID,
		"quantity": line.Quantity,
	})

	return c.JSON(http.StatusOK, line)
}

func (h *CartHandler) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	userID, err := identity.GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	lineID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid line id")
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Quantity < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be >= 1")
	}

	line, err := h.Svc.UpdateLine(ctx, userID, uint(lineID), req.Quantity)
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "cart line not found")
		}
		l.Error("update_cart_failed", "user_id", userID, "line_id", lineID, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(err), "cannot update cart")
	}

	h.publish(c, map[string]any{
		"type":     "cart_line_updated",
		"userID":   userID,
		"lineID":   lineID,
		"quantity": line.Quantity,
	})

	return c.JSON(http.StatusOK, line)
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	userID, err := identity.GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	lineID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid line id")
	}

	if err := h.Svc.Remove(ctx, userID, uint(lineID)); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "cart line not found")
		}
		l.Error("remove_from_cart_failed", "user_id", userID, "line_id", lineID, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(err), "cannot remove from cart")
	}

	h.publish(c, map[string]any{
		"type":   "cart_line_removed",
		"userID": userID,
		"lineID": lineID,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := identity.GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	if err := h.Svc.Clear(ctx, userID); err != nil {
		l.Error("clear_cart_failed", "user_id", userID, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(err), "cannot clear cart")
	}

	h.publish(c, map[string]any{
		"type":   "cart_cleared",
		"userID": userID,
	})

	return c.NoContent(http.StatusNoContent)
}
