package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Product struct {
	ID       string          `gorm:"primaryKey;size:64;not null" json:"id"` // product sku
	Name     string          `gorm:"size:255;not null" json:"name"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	TaxRate  decimal.Decimal `gorm:"type:decimal(5,4);not null" json:"tax_rate"`
	Currency string          `gorm:"size:8;not null" json:"currency"`
	Active   bool            `gorm:"not null;default:true" json:"active"`
}

type Order struct {
	ID          string          `gorm:"primaryKey;size:36;not null" json:"id"`
	MerchantOID string          `gorm:"column:merchant_oid;size:64;uniqueIndex;not null" json:"merchant_oid"` // external reference sent to the gateway
	UserID      string          `gorm:"size:64;index;not null" json:"user_id"`
	Email       string          `gorm:"size:255" json:"email"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Currency    string          `gorm:"size:8;not null" json:"currency"`
	State       OrderState      `gorm:"size:16;index;not null" json:"state"`
	Version     int             `gorm:"not null;default:1" json:"version"`

	PaymentGateway string         `gorm:"size:32" json:"payment_gateway,omitempty"`
	PaidAt         *time.Time     `json:"paid_at,omitempty"`
	PaidAmount     int64          `json:"paid_amount,omitempty"` // minor units
	FailureReason  string         `gorm:"size:255" json:"failure_reason,omitempty"`
	GatewayPayload datatypes.JSON `json:"-"`

	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderItem struct {
	ID string `gorm:"primaryKey;size:36;not null" json:"id"`
	// FK → orders.id
	OrderID string `gorm:"size:36;index;not null" json:"-"`
	// FK → products.id
	ProductID      string          `gorm:"size:64;index;not null" json:"product_id"`
	ProductName    string          `gorm:"size:255" json:"product_name"`
	Quantity       int32           `gorm:"not null" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TaxRate        decimal.Decimal `gorm:"type:decimal(5,4);not null" json:"tax_rate"`
	DeliveryParams datatypes.JSON  `json:"delivery_params,omitempty"` // target handle, links
	TargetCount    int             `gorm:"not null;default:0" json:"target_count"`
	ProgressCount  int             `gorm:"not null;default:0" json:"progress_count"`
}

// LineTotal is unit price × quantity with tax applied.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.
		Mul(decimal.NewFromInt32(i.Quantity)).
		Mul(decimal.NewFromInt(1).Add(i.TaxRate))
}

type CartItem struct {
	UserID         string         `gorm:"primaryKey;size:64" json:"user_id"`
	ProductID      string         `gorm:"primaryKey;size:64;index;not null" json:"product_id"`
	Quantity       int32          `gorm:"not null" json:"quantity"`
	DeliveryParams datatypes.JSON `json:"delivery_params,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type OutboxEvent struct {
	ID          string         `gorm:"primaryKey;size:36;not null"`
	EventType   string         `gorm:"size:64;index;not null"`
	AggregateID string         `gorm:"size:64;index;not null"`
	Payload     datatypes.JSON `gorm:"not null"`
	Attempts    int            `gorm:"not null;default:0"`
	LastError   string         `gorm:"size:255"`
	PublishedAt *time.Time     `gorm:"index"`
	CreatedAt   time.Time
}

// PaymentCallback keeps every inbound gateway callback, verified or not.
type PaymentCallback struct {
	ID          string         `gorm:"primaryKey;size:36;not null"`
	MerchantOID string         `gorm:"column:merchant_oid;size:64;index"`
	Status      string         `gorm:"size:32"`
	TotalAmount string         `gorm:"size:32"`
	Verified    bool           `gorm:"not null"`
	Outcome     string         `gorm:"size:32;index;not null"`
	Payload     datatypes.JSON `gorm:"not null"`
	ReceivedAt  time.Time      `gorm:"not null"`
}

type OrderAudit struct {
	ID        string         `gorm:"primaryKey;size:36;not null"`
	OrderID   string         `gorm:"size:36;index;not null"`
	ActorID   string         `gorm:"size:64;not null"`
	Action    string         `gorm:"size:32;not null"`
	FromState OrderState     `gorm:"size:16"`
	ToState   OrderState     `gorm:"size:16"`
	Reason    string         `gorm:"size:255"`
	Changes   datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time
}
