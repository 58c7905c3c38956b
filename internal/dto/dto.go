package dto

import (
	"encoding/json"
	"time"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/model"

	"github.com/shopspring/decimal"
)

type CheckoutItem struct {
	ProductID      string          `json:"product_id" validate:"required"`
	Quantity       int32           `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	DeliveryParams json.RawMessage `json:"delivery_params,omitempty"`
	TargetCount    int             `json:"target_count" validate:"gte=0"`
}

// item-level rules live in the order service so that they answer invalid_items
type CheckoutRequest struct {
	Items       []CheckoutItem  `json:"items" validate:"dive"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type CheckoutResponse struct {
	OrderID     string    `json:"order_id"`
	MerchantOID string    `json:"merchant_oid"`
	Token       string    `json:"token"`
	IframeURL   string    `json:"iframe_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type CartItemRequest struct {
	ProductID      string          `json:"product_id" validate:"required"`
	Quantity       int32           `json:"quantity" validate:"gt=0"`
	DeliveryParams json.RawMessage `json:"delivery_params,omitempty"`
}

type AdminOverrideRequest struct {
	State    *string        `json:"state" validate:"omitempty,oneof=pending paid completed failed expired"`
	Progress map[string]int `json:"progress" validate:"omitempty,dive,gte=0"`
	Reason   string         `json:"reason" validate:"max=250"`
}

type AdminOrderQuery struct {
	UserID string `query:"user_id"`
	State  string `query:"state" validate:"omitempty,oneof=pending paid completed failed expired"`
	Limit  int    `query:"limit" validate:"gte=0,lte=500"`
	Offset int    `query:"offset" validate:"gte=0"`
}

type OrderItemResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Quantity       int32           `json:"quantity"`
	UnitPrice      string          `json:"unit_price"`
	TaxRate        string          `json:"tax_rate"`
	DeliveryParams json.RawMessage `json:"delivery_params,omitempty"`
	TargetCount    int             `json:"target_count"`
	ProgressCount  int             `json:"progress_count"`
}

// OrderResponse carries the lifecycle state plus the derived legacy pair.
type OrderResponse struct {
	ID            string              `json:"id"`
	MerchantOID   string              `json:"merchant_oid"`
	UserID        string              `json:"user_id"`
	Items         []OrderItemResponse `json:"items"`
	TotalAmount   string              `json:"total_amount"`
	Currency      string              `json:"currency"`
	State         model.OrderState    `json:"state"`
	Status        model.Status        `json:"status"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	FailureReason string              `json:"failure_reason,omitempty"`
	ExpiresAt     time.Time           `json:"expires_at"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func NewOrderResponse(o *model.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ID:             it.ID,
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice.StringFixed(2),
			TaxRate:        it.TaxRate.String(),
			DeliveryParams: json.RawMessage(it.DeliveryParams),
			TargetCount:    it.TargetCount,
			ProgressCount:  it.ProgressCount,
		}
	}

	return OrderResponse{
		ID:            o.ID,
		MerchantOID:   o.MerchantOID,
		UserID:        o.UserID,
		Items:         items,
		TotalAmount:   o.TotalAmount.StringFixed(2),
		Currency:      o.Currency,
		State:         o.State,
		Status:        o.State.Status(),
		PaymentStatus: o.State.PaymentStatus(),
		PaidAt:        o.PaidAt,
		FailureReason: o.FailureReason,
		ExpiresAt:     o.ExpiresAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func NewOrderResponses(orders []*model.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = NewOrderResponse(o)
	}
	return out
}
