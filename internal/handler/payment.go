package handler

import (
	"log/slog"
	"net/http"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/apperr"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/dto"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/middleware"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/model"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	orderService service.OrderService
	logger       *slog.Logger
}

func NewPaymentHandler(orderService service.OrderService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		orderService: orderService,
		logger:       logger,
	}
}

func (h *PaymentHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	user, _ := middleware.PrincipalFrom(c)

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(apperr.Invalid, "invalid req body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	items := make([]service.OrderItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.OrderItemInput{
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			TaxRate:        it.TaxRate,
			DeliveryParams: it.DeliveryParams,
			TargetCount:    it.TargetCount,
		}
	}

	result, err := h.orderService.Checkout(ctx, user, items, req.TotalAmount, c.RealIP())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.CheckoutResponse{
		OrderID:     result.Order.ID,
		MerchantOID: result.Order.MerchantOID,
		Token:       result.Token,
		IframeURL:   result.IframeURL,
		ExpiresAt:   result.Order.ExpiresAt,
	})
}

// PaymentCallback always answers 200 "OK"; otherwise the gateway keeps
// redelivering. The outcome is only logged.
func (h *PaymentHandler) PaymentCallback(c echo.Context) error {
	ctx := c.Request().Context()

	form, err := c.FormParams()
	if err != nil {
		h.logger.WarnContext(ctx, "unreadable payment callback body",
			"request_id", middleware.GetRequestID(c),
			"error", err,
		)
		return c.String(http.StatusOK, "OK")
	}

	params := model.ParseCallbackParams(form)
	result, err := h.orderService.ApplyPaymentCallback(ctx, params)
	if err != nil {
		level := slog.LevelError
		if k := apperr.KindOf(err); k == apperr.SignatureInvalid || k == apperr.OrderNotFound {
			level = slog.LevelWarn
		}
		h.logger.Log(ctx, level, "payment callback not applied",
			"request_id", middleware.GetRequestID(c),
			"merchant_oid", params.MerchantOID,
			"kind", apperr.KindOf(err),
			"error", err,
		)
		return c.String(http.StatusOK, "OK")
	}

	h.logger.DebugContext(ctx, "payment callback handled",
		"merchant_oid", params.MerchantOID,
		"outcome", result.Outcome,
	)
	return c.String(http.StatusOK, "OK")
}
