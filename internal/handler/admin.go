package handler

import (
	"net/http"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/apperr"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/dto"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/middleware"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/model"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/repository"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/service"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	orderService service.OrderService
}

func NewAdminHandler(orderService service.OrderService) *AdminHandler {
	return &AdminHandler{
		orderService: orderService,
	}
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	var q dto.AdminOrderQuery
	if err := c.Bind(&q); err != nil {
		return apperr.Wrap(apperr.Invalid, "invalid query", err)
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	orders, err := h.orderService.ListAllOrders(ctx, repository.OrderFilter{
		UserID: q.UserID,
		State:  model.OrderState(q.State),
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewOrderResponses(orders))
}

func (h *AdminHandler) OverrideOrder(c echo.Context) error {
	ctx := c.Request().Context()
	admin, _ := middleware.PrincipalFrom(c)

	var req dto.AdminOverrideRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(apperr.Invalid, "invalid req body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := service.OverrideInput{
		Progress: req.Progress,
		Reason:   req.Reason,
	}
	if req.State != nil {
		state, err := model.ParseOrderState(*req.State)
		if err != nil {
			return apperr.Wrap(apperr.Invalid, "unknown state", err)
		}
		in.State = &state
	}

	order, err := h.orderService.AdminOverride(ctx, admin, c.Param("id"), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

func (h *AdminHandler) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	admin, _ := middleware.PrincipalFrom(c)

	if err := h.orderService.AdminDelete(ctx, admin, c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
