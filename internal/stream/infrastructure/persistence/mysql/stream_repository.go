package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/livecommerce/internal/stream/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

type streamRepository struct{ db *gorm.DB }

func NewStreamRepository(db *gorm.DB) domain.LivestreamRepository {
	return &streamRepository{db: db}
}

func (r *streamRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextx.WithTx(ctx, tx)
		return fn(txCtx)
	})
}

func (r *streamRepository) Save(ctx context.Context, stream *domain.Livestream) error {
	return r.getDB(ctx).WithContext(ctx).Save(stream).Error
}

func (r *streamRepository) GetByID(ctx context.Context, id string) (*domain.Livestream, error) {
	var stream domain.Livestream
	err := r.getDB(ctx).WithContext(ctx).Where("id = ?", id).First(&stream).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stream, nil
}

func (r *streamRepository) ListByHost(ctx context.Context, hostID uint) ([]*domain.Livestream, error) {
	var streams []*domain.Livestream
	err := r.getDB(ctx).WithContext(ctx).
		Where("host_id = ?", hostID).
		Order("created_at desc").
		Find(&streams).Error
	return streams, err
}

func (r *streamRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}
