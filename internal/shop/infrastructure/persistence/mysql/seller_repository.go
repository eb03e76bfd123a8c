package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/livecommerce/internal/shop/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sellerRepository struct{ db *gorm.DB }

func NewSellerRepository(db *gorm.DB) domain.SellerRepository {
	return &sellerRepository{db: db}
}

func (r *sellerRepository) Save(ctx context.Context, seller *domain.Seller) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username"}),
		}).
		Create(seller).Error
}

func (r *sellerRepository) GetByUsername(ctx context.Context, username string) (*domain.Seller, error) {
	var seller domain.Seller
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&seller).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &seller, nil
}
