package domain

import "context"

// InventoryStore 结算的持久化端口。ApplyBatch 与 SaveOrder 必须在
// 同一个 WithTx 事务里调用，整批要么全部生效要么全部不生效。
type InventoryStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	ApplyBatch(ctx context.Context, updates []StockUpdate) error
	// SaveOrder 幂等键冲突时返回 ErrDuplicateCheckout
	SaveOrder(ctx context.Context, order *Order) error
	// GetOrderByKey 按幂等键查回执，不存在返回 (nil, nil)
	GetOrderByKey(ctx context.Context, idempotencyKey string) (*Order, error)
}
