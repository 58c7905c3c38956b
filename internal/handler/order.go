package handler

import (
	"net/http"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/dto"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/middleware"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	user, _ := middleware.PrincipalFrom(c)

	orders, err := h.orderService.ListOrders(ctx, user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewOrderResponses(orders))
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	user, _ := middleware.PrincipalFrom(c)

	order, err := h.orderService.GetOrder(ctx, user, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

func (h *OrderHandler) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	user, _ := middleware.PrincipalFrom(c)

	if err := h.orderService.CancelOrder(ctx, user, c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
