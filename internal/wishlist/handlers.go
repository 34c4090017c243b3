package wishlist

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/cart"
	"github.com/Skotchmaster/bookstore/internal/errs"
	"github.com/Skotchmaster/bookstore/internal/identity"
	"github.com/Skotchmaster/bookstore/internal/logging"
)

type WishlistHandler struct {
	Svc       *Service
	JWTSecret []byte
}

func (h *WishlistHandler) GetWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.get")

	userID, err := identity.GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	items, err := h.Svc.Get(ctx, userID)
	if err != nil {
		l.Error("get_wishlist_failed", "user_id", userID, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(err), "cannot get wishlist")
	}

	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

func (h *WishlistHandler) AddToWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.add")

	userID, err := identity.GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	var req struct {
		BookID uint `json:"book_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.BookID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "book_id is required")
	}

	item, err := h.Svc.Add(ctx, userID, req.BookID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "book not found")
		}
		l.Error("add_to_wishlist_failed", "user_id", userID, "book_id", req.BookID, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(err), "cannot add to wishlist")
	}

	return c.JSON(http.StatusOK, item)
}

func (h *WishlistHandler) RemoveFromWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.remove")

	userID, err := identity.GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	if err := h.Svc.Remove(ctx, userID, uint(itemID)); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "wishlist item not found")
		}
		l.Error("remove_from_wishlist_failed", "user_id", userID, "item_id", itemID, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(err), "cannot remove from wishlist")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *WishlistHandler) MoveToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.move_to_cart")

	userID, err := identity.GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	line, err := h.Svc.MoveToCart(ctx, userID, uint(itemID), req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrInsufficientStock) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "wishlist item not found")
		}
		l.Error("move_to_cart_failed", "user_id", userID, "item_id", itemID, "error", err)
		return echo.NewHTTPError(errs.HTTPStatus(err), "cannot move to cart")
	}

	return c.JSON(http.StatusOK, line)
}
