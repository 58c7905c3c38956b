package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/apperr"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/client"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/metrics"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/model"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	maxTransitionAttempts = 3
	expirySweepBatch      = 100
)

// merchant_oid must be alphanumeric for the gateway
var newMerchantOID = func() func() string {
	gen, err := nanoid.CustomASCII("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ", 20)
	if err != nil {
		panic(err)
	}
	return gen
}()

type OrderItemInput struct {
	ProductID      string
	Quantity       int32
	UnitPrice      decimal.Decimal
	TaxRate        decimal.Decimal
	DeliveryParams json.RawMessage
	TargetCount    int
}

type CheckoutResult struct {
	Order     *model.Order
	Token     string
	IframeURL string
}

type CallbackOutcome string

const (
	OutcomeApplied        CallbackOutcome = "applied"
	OutcomeAlreadyApplied CallbackOutcome = "already_applied"
	OutcomeConflict       CallbackOutcome = "conflict"
	OutcomeRejected       CallbackOutcome = "rejected"
	OutcomeOrderNotFound  CallbackOutcome = "order_not_found"
)

type ApplyResult struct {
	Outcome     CallbackOutcome
	MerchantOID string
	OrderID     string
	State       model.OrderState
}

type OverrideInput struct {
	State    *model.OrderState
	Progress map[string]int // order item id → progress count
	Reason   string
}

type OrderService interface {
	CreateOrder(ctx context.Context, user model.Principal, items []OrderItemInput, totalAmount decimal.Decimal) (*model.Order, error)
	Checkout(ctx context.Context, user model.Principal, items []OrderItemInput, totalAmount decimal.Decimal, payerIP string) (*CheckoutResult, error)
	ExpireIfUnpaid(ctx context.Context, orderID string) (bool, error)
	ExpireDue(ctx context.Context) (int, error)
	ApplyPaymentCallback(ctx context.Context, params model.CallbackParams) (*ApplyResult, error)
	CancelOrder(ctx context.Context, user model.Principal, orderID string) error
	GetOrder(ctx context.Context, user model.Principal, orderID string) (*model.Order, error)
	ListOrders(ctx context.Context, user model.Principal) ([]*model.Order, error)
	ListAllOrders(ctx context.Context, filter repository.OrderFilter) ([]*model.Order, error)
	AdminOverride(ctx context.Context, admin model.Principal, orderID string, in OverrideInput) (*model.Order, error)
	AdminDelete(ctx context.Context, admin model.Principal, orderID string) error
}

type OrderOptions struct {
	TTL      time.Duration
	Currency string
	Clock    func() time.Time
	Logger   *slog.Logger
}

type orderServiceImpl struct {
	db           *gorm.DB
	gateway      client.PaymentGateway
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	cartRepo     repository.CartRepository
	outboxRepo   repository.OutboxRepository
	callbackRepo repository.CallbackRepository
	auditRepo    repository.AuditRepository
	metrics      *metrics.OrderMetrics
	ttl          time.Duration
	currency     string
	now          func() time.Time
	logger       *slog.Logger
}

func NewOrderService(
	db *gorm.DB,
	gateway client.PaymentGateway,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	outboxRepo repository.OutboxRepository,
	callbackRepo repository.CallbackRepository,
	auditRepo repository.AuditRepository,
	orderMetrics *metrics.OrderMetrics,
	opts OrderOptions,
) OrderService {
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}
	if opts.Currency == "" {
		opts.Currency = "TL"
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &orderServiceImpl{
		db:           db,
		gateway:      gateway,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		cartRepo:     cartRepo,
		outboxRepo:   outboxRepo,
		callbackRepo: callbackRepo,
		auditRepo:    auditRepo,
		metrics:      orderMetrics,
		ttl:          opts.TTL,
		currency:     opts.Currency,
		now:          func() time.Time { return opts.Clock().UTC() },
		logger:       opts.Logger,
	}
}

func (s *orderServiceImpl) CreateOrder(ctx context.Context, user model.Principal, items []OrderItemInput, totalAmount decimal.Decimal) (*model.Order, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}
	if !totalAmount.IsPositive() {
		return nil, apperr.New(apperr.InvalidAmount, "total amount must be positive")
	}

	productIDs := make([]string, 0, len(items))
	seen := make(map[string]bool)
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			productIDs = append(productIDs, item.ProductID)
		}
	}

	products, err := s.productRepo.FindMany(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("get many products by item ids: %w", err)
	}
	if len(products) != len(productIDs) {
		return nil, apperr.New(apperr.InvalidItems, "some products not found")
	}

	catalog := make(map[string]*model.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}
	for i, item := range items {
		p := catalog[item.ProductID]
		if !item.UnitPrice.Equal(p.Price) || !item.TaxRate.Equal(p.TaxRate) {
			return nil, apperr.New(apperr.InvalidItems,
				fmt.Sprintf("item %d: price or tax rate does not match the catalog for %s", i, item.ProductID))
		}
	}

	now := s.now()
	order := &model.Order{
		ID:          uuid.NewString(),
		MerchantOID: newMerchantOID(),
		UserID:      user.UserID,
		Email:       user.Email,
		Currency:    s.currency,
		State:       model.StatePending,
		Version:     1,
		ExpiresAt:   now.Add(s.ttl),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	expected := decimal.Zero
	order.Items = make([]model.OrderItem, len(items))
	for i, item := range items {
		orderItem := model.OrderItem{
			ID:             uuid.NewString(),
			OrderID:        order.ID,
			ProductID:      item.ProductID,
			ProductName:    catalog[item.ProductID].Name,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			TaxRate:        item.TaxRate,
			DeliveryParams: datatypes.JSON(item.DeliveryParams),
			TargetCount:    item.TargetCount,
		}
		expected = expected.Add(orderItem.LineTotal())
		order.Items[i] = orderItem
	}

	if !expected.Round(2).Equal(totalAmount.Round(2)) {
		return nil, apperr.New(apperr.InvalidAmount,
			fmt.Sprintf("total amount %s does not match items total %s", totalAmount.StringFixed(2), expected.StringFixed(2)))
	}
	order.TotalAmount = totalAmount.Round(2)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order in db: %w", err)
		}
		return s.outboxRepo.Add(ctx, tx, s.newEvent("order.created", order, nil))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrdersCreatedTotal.WithLabelValues(order.Currency).Inc()
	s.logger.InfoContext(ctx, "order created",
		"order_id", order.ID,
		"merchant_oid", order.MerchantOID,
		"user_id", order.UserID,
		"total_amount", order.TotalAmount.StringFixed(2),
		"expires_at", order.ExpiresAt,
	)

	return order, nil
}

func validateItems(items []OrderItemInput) error {
	if len(items) == 0 {
		return apperr.New(apperr.InvalidItems, "order must contain at least one item")
	}

	one := decimal.NewFromInt(1)
	for i, item := range items {
		switch {
		case item.ProductID == "":
			return apperr.New(apperr.InvalidItems, fmt.Sprintf("item %d: product id is required", i))
		case item.Quantity <= 0:
			return apperr.New(apperr.InvalidItems, fmt.Sprintf("item %d: quantity must be positive", i))
		case !item.UnitPrice.IsPositive():
			return apperr.New(apperr.InvalidItems, fmt.Sprintf("item %d: unit price must be positive", i))
		case !item.UnitPrice.Equal(item.UnitPrice.Round(2)):
			return apperr.New(apperr.InvalidItems, fmt.Sprintf("item %d: unit price must have at most 2 decimals", i))
		case item.TaxRate.IsNegative() || item.TaxRate.GreaterThan(one):
			return apperr.New(apperr.InvalidItems, fmt.Sprintf("item %d: tax rate must be between 0 and 1", i))
		case !item.TaxRate.Equal(item.TaxRate.Round(4)):
			return apperr.New(apperr.InvalidItems, fmt.Sprintf("item %d: tax rate must have at most 4 decimals", i))
		case item.TargetCount < 0:
			return apperr.New(apperr.InvalidItems, fmt.Sprintf("item %d: target count must not be negative", i))
		case len(item.DeliveryParams) > 0 && !json.Valid(item.DeliveryParams):
			return apperr.New(apperr.InvalidItems, fmt.Sprintf("item %d: delivery params must be valid JSON", i))
		}
	}

	return nil
}

func (s *orderServiceImpl) Checkout(ctx context.Context, user model.Principal, items []OrderItemInput, totalAmount decimal.Decimal, payerIP string) (*CheckoutResult, error) {
	order, err := s.CreateOrder(ctx, user, items, totalAmount)
	if err != nil {
		return nil, err
	}

	basket := make([]model.BasketItem, len(order.Items))
	for i, item := range order.Items {
		name := item.ProductName
		if name == "" {
			name = item.ProductID
		}
		basket[i] = model.BasketItem{
			Name:     name,
			Price:    item.UnitPrice.Mul(decimal.NewFromInt(1).Add(item.TaxRate)).StringFixed(2),
			Quantity: item.Quantity,
		}
	}

	start := time.Now()
	token, err := s.gateway.RequestHostedPaymentToken(ctx, &client.TokenRequest{
		MerchantOID: order.MerchantOID,
		Email:       order.Email,
		PayerIP:     payerIP,
		Amount:      MinorUnits(order.TotalAmount),
		Currency:    order.Currency,
		Basket:      basket,
		UserName:    order.Email,
		UserAddress: "-",
		UserPhone:   "-",
		Timeout:     s.ttl,
	})
	if err != nil {
		s.metrics.GatewayRequestDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		s.logger.ErrorContext(ctx, "hosted payment token request failed",
			"order_id", order.ID,
			"merchant_oid", order.MerchantOID,
			"error", err,
		)
		return nil, apperr.Wrap(apperr.GatewayUnavailable, "payment gateway unavailable", err)
	}
	s.metrics.GatewayRequestDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	return &CheckoutResult{
		Order:     order,
		Token:     token,
		IframeURL: s.gateway.IframeURL(token),
	}, nil
}

// MinorUnits converts a major-unit amount to the gateway's integer representation.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func (s *orderServiceImpl) ExpireIfUnpaid(ctx context.Context, orderID string) (bool, error) {
	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		expired := false
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			order, err := s.orderRepo.FindByID(ctx, tx, orderID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("find order: %w", err)
			}

			if order.State != model.StatePending || s.now().Before(order.ExpiresAt) {
				return nil
			}

			order.State = model.StateExpired
			if err := s.orderRepo.SaveState(ctx, tx, order); err != nil {
				return err
			}
			expired = true
			return s.outboxRepo.Add(ctx, tx, s.newEvent("order.expired", order, nil))
		})

		if errors.Is(err, repository.ErrConcurrentUpdate) {
			continue
		}
		if err != nil {
			return false, err
		}

		if expired {
			s.metrics.OrderTransitionsTotal.WithLabelValues(string(model.StatePending), string(model.StateExpired), "expiry").Inc()
			s.logger.InfoContext(ctx, "order expired", "order_id", orderID)
		}
		return expired, nil
	}

	return false, apperr.Wrap(apperr.Conflict, "order is being modified", repository.ErrConcurrentUpdate)
}

func (s *orderServiceImpl) ExpireDue(ctx context.Context) (int, error) {
	orders, err := s.orderRepo.FindExpired(ctx, s.now(), expirySweepBatch)
	if err != nil {
		return 0, fmt.Errorf("find expired orders: %w", err)
	}

	count := 0
	for _, order := range orders {
		expired, err := s.ExpireIfUnpaid(ctx, order.ID)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to expire order", "order_id", order.ID, "error", err)
			continue
		}
		if expired {
			count++
		}
	}

	return count, nil
}

func (s *orderServiceImpl) ApplyPaymentCallback(ctx context.Context, params model.CallbackParams) (*ApplyResult, error) {
	received := s.now()
	verification := s.gateway.VerifyCallbackSignature(params)

	result := &ApplyResult{MerchantOID: params.MerchantOID}
	if !verification.Valid {
		result.Outcome = OutcomeRejected
		s.recordCallback(ctx, params, false, result.Outcome, received)
		s.logger.WarnContext(ctx, "payment callback rejected: invalid signature",
			"merchant_oid", params.MerchantOID,
			"status", params.Status,
		)
		return result, apperr.New(apperr.SignatureInvalid, "callback signature mismatch")
	}

	var from model.OrderState
	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			order, err := s.orderRepo.FindByMerchantOID(ctx, tx, params.MerchantOID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.Outcome = OutcomeOrderNotFound
				return s.outboxRepo.Add(ctx, tx, s.newPaymentEvent("payment.orphaned", params, verification))
			}
			if err != nil {
				return fmt.Errorf("find order by merchant oid: %w", err)
			}

			result.OrderID = order.ID
			result.State = order.State
			from = order.State

			target := model.StateFailed
			if verification.Success {
				target = model.StatePaid
			}

			switch {
			case order.State.PaymentStatus() == target.PaymentStatus():
				result.Outcome = OutcomeAlreadyApplied
				return nil
			case !order.State.CanTransition(target):
				result.Outcome = OutcomeConflict
				return s.outboxRepo.Add(ctx, tx, s.newEvent("payment.reconciliation_required", order, map[string]interface{}{
					"callback_status": params.Status,
					"callback_amount": verification.Amount,
				}))
			}

			order.State = target
			order.PaymentGateway = s.gateway.Name()
			order.GatewayPayload = datatypes.JSON(params.JSON())
			eventType := "order.payment_failed"
			if verification.Success {
				paidAt := received
				order.PaidAt = &paidAt
				order.PaidAmount = verification.Amount
				eventType = "order.paid"
			} else {
				order.FailureReason = truncate(firstNonEmpty(verification.FailureReason, "payment failed"), 250)
			}

			if err := s.orderRepo.SaveState(ctx, tx, order); err != nil {
				return err
			}

			if verification.Success {
				if _, err := s.cartRepo.ClearByUser(ctx, tx, order.UserID); err != nil {
					return fmt.Errorf("clear cart: %w", err)
				}
			}

			result.Outcome = OutcomeApplied
			result.State = order.State
			return s.outboxRepo.Add(ctx, tx, s.newEvent(eventType, order, nil))
		})

		if errors.Is(err, repository.ErrConcurrentUpdate) {
			continue
		}
		if err != nil {
			return result, err
		}

		s.recordCallback(ctx, params, true, result.Outcome, received)
		s.logCallbackOutcome(ctx, result, from, verification)

		if result.Outcome == OutcomeOrderNotFound {
			return result, apperr.New(apperr.OrderNotFound, "no order for merchant_oid")
		}
		return result, nil
	}

	return result, apperr.Wrap(apperr.Conflict, "order is being modified", repository.ErrConcurrentUpdate)
}

func (s *orderServiceImpl) logCallbackOutcome(ctx context.Context, result *ApplyResult, from model.OrderState, v *client.CallbackVerification) {
	s.metrics.PaymentCallbacksTotal.WithLabelValues(string(result.Outcome)).Inc()

	attrs := []interface{}{
		"merchant_oid", result.MerchantOID,
		"order_id", result.OrderID,
		"outcome", result.Outcome,
		"success", v.Success,
		"amount", v.Amount,
	}

	switch result.Outcome {
	case OutcomeApplied:
		s.metrics.OrderTransitionsTotal.WithLabelValues(string(from), string(result.State), "callback").Inc()
		s.logger.InfoContext(ctx, "payment callback applied", append(attrs, "state", result.State)...)
	case OutcomeAlreadyApplied:
		s.logger.InfoContext(ctx, "payment callback already applied", attrs...)
	case OutcomeConflict:
		s.logger.WarnContext(ctx, "payment callback conflicts with order state", append(attrs, "state", result.State)...)
	case OutcomeOrderNotFound:
		s.logger.ErrorContext(ctx, "payment callback for unknown order", attrs...)
	}
}

func (s *orderServiceImpl) recordCallback(ctx context.Context, params model.CallbackParams, verified bool, outcome CallbackOutcome, received time.Time) {
	err := s.callbackRepo.Record(ctx, &model.PaymentCallback{
		ID:          uuid.NewString(),
		MerchantOID: params.MerchantOID,
		Status:      params.Status,
		TotalAmount: params.TotalAmount,
		Verified:    verified,
		Outcome:     string(outcome),
		Payload:     datatypes.JSON(params.JSON()),
		ReceivedAt:  received,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to record payment callback", "merchant_oid", params.MerchantOID, "error", err)
	}
}

func (s *orderServiceImpl) CancelOrder(ctx context.Context, user model.Principal, orderID string) error {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if order.UserID != user.UserID {
		return apperr.New(apperr.Forbidden, "order does not belong to the user")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Delete(ctx, tx, order.ID); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		return s.outboxRepo.Add(ctx, tx, s.newEvent("order.deleted", order, map[string]interface{}{
			"deleted_by": user.UserID,
		}))
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "order cancelled by user",
		"order_id", order.ID,
		"user_id", user.UserID,
		"state", order.State,
	)
	return nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, user model.Principal, orderID string) (*model.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != user.UserID && !user.IsAdmin() {
		return nil, apperr.New(apperr.Forbidden, "order does not belong to the user")
	}

	return order, nil
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, user model.Principal) ([]*model.Order, error) {
	return s.orderRepo.List(ctx, repository.OrderFilter{UserID: user.UserID})
}

func (s *orderServiceImpl) ListAllOrders(ctx context.Context, filter repository.OrderFilter) ([]*model.Order, error) {
	return s.orderRepo.List(ctx, filter)
}

func (s *orderServiceImpl) AdminOverride(ctx context.Context, admin model.Principal, orderID string, in OverrideInput) (*model.Order, error) {
	if !admin.IsAdmin() {
		return nil, apperr.New(apperr.Forbidden, "admin role required")
	}
	if in.State == nil && len(in.Progress) == 0 {
		return nil, apperr.New(apperr.Invalid, "nothing to override")
	}
	for itemID, progress := range in.Progress {
		if progress < 0 {
			return nil, apperr.New(apperr.Invalid, fmt.Sprintf("progress for item %s must not be negative", itemID))
		}
	}

	changes, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal override: %w", err)
	}

	var from, to model.OrderState
	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			order, err := s.orderRepo.FindByID(ctx, tx, orderID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.OrderNotFound, "order not found")
			}
			if err != nil {
				return fmt.Errorf("find order: %w", err)
			}

			from, to = order.State, order.State
			if in.State != nil && *in.State != order.State {
				order.State = *in.State
				to = order.State
				// a reopened order gets a fresh payment window
				if to == model.StatePending {
					order.ExpiresAt = s.now().Add(s.ttl)
				}
				if err := s.orderRepo.SaveState(ctx, tx, order); err != nil {
					return err
				}
			}

			for itemID, progress := range in.Progress {
				if err := s.orderRepo.UpdateItemProgress(ctx, tx, order.ID, itemID, progress); err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return apperr.New(apperr.NotFound, fmt.Sprintf("order item %s not found", itemID))
					}
					return fmt.Errorf("update item progress: %w", err)
				}
			}

			if err := s.auditRepo.Record(ctx, tx, &model.OrderAudit{
				ID:        uuid.NewString(),
				OrderID:   order.ID,
				ActorID:   admin.UserID,
				Action:    "override",
				FromState: from,
				ToState:   to,
				Reason:    truncate(in.Reason, 250),
				Changes:   datatypes.JSON(changes),
				CreatedAt: s.now(),
			}); err != nil {
				return fmt.Errorf("record audit: %w", err)
			}

			return s.outboxRepo.Add(ctx, tx, s.newEvent("order.overridden", order, map[string]interface{}{
				"admin_id":   admin.UserID,
				"from_state": from,
			}))
		})

		if errors.Is(err, repository.ErrConcurrentUpdate) {
			continue
		}
		break
	}
	if err != nil {
		if errors.Is(err, repository.ErrConcurrentUpdate) {
			return nil, apperr.Wrap(apperr.Conflict, "order is being modified", err)
		}
		return nil, err
	}

	s.metrics.AdminOverridesTotal.Inc()
	if from != to {
		s.metrics.OrderTransitionsTotal.WithLabelValues(string(from), string(to), "admin").Inc()
	}
	s.logger.InfoContext(ctx, "order overridden by admin",
		"order_id", orderID,
		"admin_id", admin.UserID,
		"from_state", from,
		"to_state", to,
		"outside_state_machine", from != to && !from.CanTransition(to),
		"progress_updates", len(in.Progress),
		"reason", in.Reason,
	)

	return s.findOrder(ctx, orderID)
}

func (s *orderServiceImpl) AdminDelete(ctx context.Context, admin model.Principal, orderID string) error {
	if !admin.IsAdmin() {
		return apperr.New(apperr.Forbidden, "admin role required")
	}

	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Delete(ctx, tx, order.ID); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		if err := s.auditRepo.Record(ctx, tx, &model.OrderAudit{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			ActorID:   admin.UserID,
			Action:    "delete",
			FromState: order.State,
			Changes:   datatypes.JSON(`{}`),
			CreatedAt: s.now(),
		}); err != nil {
			return fmt.Errorf("record audit: %w", err)
		}
		return s.outboxRepo.Add(ctx, tx, s.newEvent("order.deleted", order, map[string]interface{}{
			"deleted_by": admin.UserID,
		}))
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "order deleted by admin", "order_id", order.ID, "admin_id", admin.UserID)
	return nil
}

func (s *orderServiceImpl) findOrder(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, nil, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.OrderNotFound, "order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}

func (s *orderServiceImpl) newEvent(eventType string, order *model.Order, extra map[string]interface{}) *model.OutboxEvent {
	payload := map[string]interface{}{
		"event_type":     eventType,
		"order_id":       order.ID,
		"merchant_oid":   order.MerchantOID,
		"user_id":        order.UserID,
		"state":          order.State,
		"status":         order.State.Status(),
		"payment_status": order.State.PaymentStatus(),
		"total_amount":   order.TotalAmount.StringFixed(2),
		"currency":       order.Currency,
	}
	for k, v := range extra {
		payload[k] = v
	}

	return s.outboxEvent(eventType, order.ID, payload)
}

func (s *orderServiceImpl) newPaymentEvent(eventType string, params model.CallbackParams, v *client.CallbackVerification) *model.OutboxEvent {
	return s.outboxEvent(eventType, params.MerchantOID, map[string]interface{}{
		"event_type":   eventType,
		"merchant_oid": params.MerchantOID,
		"status":       params.Status,
		"amount":       v.Amount,
		"success":      v.Success,
	})
}

func (s *orderServiceImpl) outboxEvent(eventType, aggregateID string, payload map[string]interface{}) *model.OutboxEvent {
	now := s.now()
	payload["occurred_at"] = now

	b, _ := json.Marshal(payload)
	return &model.OutboxEvent{
		ID:          uuid.NewString(),
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     datatypes.JSON(b),
		CreatedAt:   now,
	}
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
