package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/apperr"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/model"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CartItemInput struct {
	ProductID      string
	Quantity       int32
	DeliveryParams json.RawMessage
}

type CartService interface {
	AddItem(ctx context.Context, userID string, in CartItemInput) error
	GetCart(ctx context.Context, userID string) ([]*model.CartItem, error)
	RemoveItem(ctx context.Context, userID, productID string) error
	ListProducts(ctx context.Context) ([]*model.Product, error)
}

type cartServiceImpl struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) CartService {
	return &cartServiceImpl{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartServiceImpl) AddItem(ctx context.Context, userID string, in CartItemInput) error {
	if in.Quantity <= 0 {
		return apperr.New(apperr.InvalidItems, "quantity must be positive")
	}
	if len(in.DeliveryParams) > 0 && !json.Valid(in.DeliveryParams) {
		return apperr.New(apperr.InvalidItems, "delivery params must be valid JSON")
	}

	product, err := s.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !product.Active) {
		return apperr.New(apperr.InvalidItems, "product not found")
	}
	if err != nil {
		return fmt.Errorf("find product: %w", err)
	}

	now := time.Now().UTC()
	err = s.cartRepo.Upsert(ctx, &model.CartItem{
		UserID:         userID,
		ProductID:      product.ID,
		Quantity:       in.Quantity,
		DeliveryParams: datatypes.JSON(in.DeliveryParams),
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}

	return nil
}

func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) ([]*model.CartItem, error) {
	return s.cartRepo.ListByUser(ctx, userID)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, productID string) error {
	return s.cartRepo.Remove(ctx, userID, productID)
}

func (s *cartServiceImpl) ListProducts(ctx context.Context) ([]*model.Product, error) {
	return s.productRepo.ListActive(ctx)
}
