package handler

import (
	"net/http"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/apperr"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/dto"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/middleware"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/service"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	user, _ := middleware.PrincipalFrom(c)

	items, err := h.cartService.GetCart(ctx, user.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, items)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	user, _ := middleware.PrincipalFrom(c)

	var req dto.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(apperr.Invalid, "invalid req body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.cartService.AddItem(ctx, user.UserID, service.CartItemInput{
		ProductID:      req.ProductID,
		Quantity:       req.Quantity,
		DeliveryParams: req.DeliveryParams,
	})
	if err != nil {
		return err
	}

	items, err := h.cartService.GetCart(ctx, user.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, items)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	user, _ := middleware.PrincipalFrom(c)

	if err := h.cartService.RemoveItem(ctx, user.UserID, c.Param("productID")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) ListProducts(c echo.Context) error {
	products, err := h.cartService.ListProducts(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, products)
}
