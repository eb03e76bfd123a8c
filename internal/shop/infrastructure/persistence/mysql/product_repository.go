package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/livecommerce/internal/shop/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

type productRepository struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextx.WithTx(ctx, tx)
		return fn(txCtx)
	})
}

func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	return r.getDB(ctx).WithContext(ctx).Save(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, sellerID uint, productID string) (*domain.Product, error) {
	var p domain.Product
	err := r.getDB(ctx).WithContext(ctx).
		Where("seller_id = ? AND id = ?", sellerID, productID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) ListBySeller(ctx context.Context, sellerID uint) ([]*domain.Product, error) {
	var products []*domain.Product
	err := r.getDB(ctx).WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("name asc").
		Find(&products).Error
	return products, err
}

func (r *productRepository) Delete(ctx context.Context, sellerID uint, productID string) error {
	return r.getDB(ctx).WithContext(ctx).
		Where("seller_id = ? AND id = ?", sellerID, productID).
		Delete(&domain.Product{}).Error
}

func (r *productRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}
