package repository

import (
	"context"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, productID string) (*model.Product, error)
	FindMany(ctx context.Context, productIDs []string) ([]*model.Product, error)
	ListActive(ctx context.Context) ([]*model.Product, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Seed(ctx context.Context) error {
	kdv := decimal.RequireFromString("0.20")
	products := []model.Product{
		{ID: "ig_followers_1k", Name: "Instagram 1K Followers", Price: decimal.RequireFromString("149.90"), TaxRate: kdv, Currency: "TL", Active: true},
		{ID: "ig_likes_500", Name: "Instagram 500 Likes", Price: decimal.RequireFromString("49.90"), TaxRate: kdv, Currency: "TL", Active: true},
		{ID: "tt_views_10k", Name: "TikTok 10K Views", Price: decimal.RequireFromString("79.90"), TaxRate: kdv, Currency: "TL", Active: true},
		{ID: "yt_subscribers_100", Name: "YouTube 100 Subscribers", Price: decimal.RequireFromString("199.90"), TaxRate: kdv, Currency: "TL", Active: true},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindMany(ctx context.Context, productIDs []string) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", productIDs).
		Where("active = ?", true).
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) ListActive(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id").
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}
