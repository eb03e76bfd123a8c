package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/wyfcoding/livecommerce/internal/checkout/domain"
	shopdomain "github.com/wyfcoding/livecommerce/internal/shop/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

// inventoryStore 结算持久化实现。批量更新直接落在商品表上，
// 与订单行共用一个事务。
type inventoryStore struct{ db *gorm.DB }

// NewInventoryStore 创建结算存储实例
func NewInventoryStore(db *gorm.DB) domain.InventoryStore {
	return &inventoryStore{db: db}
}

func (s *inventoryStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextx.WithTx(ctx, tx)
		return fn(txCtx)
	})
}

// ApplyBatch 应用钳制后的批量变更。钳制行把库存整体写 0，
// 其余行做原子减量，销量一律做原子增量。
func (s *inventoryStore) ApplyBatch(ctx context.Context, updates []domain.StockUpdate) error {
	db := s.getDB(ctx)
	for _, update := range updates {
		values := map[string]any{
			"number_sold": gorm.Expr("number_sold + ?", update.SoldDelta),
		}
		if update.ClampToZero {
			values["stock"] = 0
		} else {
			values["stock"] = gorm.Expr("stock + ?", update.StockDelta)
		}
		result := db.WithContext(ctx).
			Model(&shopdomain.Product{}).
			Where("id = ?", update.ProductID).
			Updates(values)
		if result.Error != nil {
			return fmt.Errorf("failed to apply stock update for %s: %w", update.ProductID, result.Error)
		}
		// 商品在加购和结算之间被删除时，UPDATE 命中 0 行，
		// 必须让整个事务回滚，而不是悄悄落单
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", domain.ErrProductNotFound, update.ProductID)
		}
	}
	return nil
}

func (s *inventoryStore) SaveOrder(ctx context.Context, order *domain.Order) error {
	err := s.getDB(ctx).WithContext(ctx).Create(order).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateCheckout
	}
	return err
}

func (s *inventoryStore) GetOrderByKey(ctx context.Context, idempotencyKey string) (*domain.Order, error) {
	var order domain.Order
	err := s.getDB(ctx).WithContext(ctx).
		Where("idempotency_key = ?", idempotencyKey).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *inventoryStore) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return s.db
}
