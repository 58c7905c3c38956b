package model

import "fmt"

// OrderState is the single lifecycle field of an order. The legacy status and
// payment status pair is derived from it and cannot disagree.
type OrderState string

const (
	StatePending   OrderState = "pending"
	StatePaid      OrderState = "paid"
	StateCompleted OrderState = "completed"
	StateFailed    OrderState = "failed"
	StateExpired   OrderState = "expired"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
	PaymentExpired PaymentStatus = "expired"
)

func ParseOrderState(s string) (OrderState, error) {
	switch st := OrderState(s); st {
	case StatePending, StatePaid, StateCompleted, StateFailed, StateExpired:
		return st, nil
	}
	return "", fmt.Errorf("unknown order state %q", s)
}

func (s OrderState) Status() Status {
	switch s {
	case StatePaid:
		return StatusProcessing
	case StateCompleted:
		return StatusCompleted
	case StateFailed, StateExpired:
		return StatusCancelled
	default:
		return StatusPending
	}
}

func (s OrderState) PaymentStatus() PaymentStatus {
	switch s {
	case StatePaid, StateCompleted:
		return PaymentPaid
	case StateFailed:
		return PaymentFailed
	case StateExpired:
		return PaymentExpired
	default:
		return PaymentPending
	}
}

// Terminal reports whether no callback or expiry may move the order any more.
// Paid orders are not terminal for the admin, who may still complete them.
func (s OrderState) Terminal() bool {
	return s != StatePending
}

// CanTransition covers the normal machine; admin overrides bypass it.
func (s OrderState) CanTransition(to OrderState) bool {
	switch s {
	case StatePending:
		return to == StatePaid || to == StateFailed || to == StateExpired
	case StatePaid:
		return to == StateCompleted
	}
	return false
}

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Principal is the caller resolved from a bearer token.
type Principal struct {
	UserID string
	Email  string
	Role   Role
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
