package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// OrderPlacedEventType 结算成功、订单落库
	OrderPlacedEventType = "checkout.order.placed"
	// StockCommittedEventType 结算批量更新已应用到商品库
	StockCommittedEventType = "shop.stock.committed"
)

// OrderPlacedEvent 订单回执事件
type OrderPlacedEvent struct {
	OrderID   string          `json:"order_id"`
	UserID    uint            `json:"user_id"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int64           `json:"item_count"`
	Timestamp time.Time       `json:"timestamp"`
}

// StockCommittedEvent 批量库存变更事件，下游商品快照订阅方消费
type StockCommittedEvent struct {
	OrderID   string        `json:"order_id"`
	Updates   []StockUpdate `json:"updates"`
	Timestamp time.Time     `json:"timestamp"`
}

// EventPublisher 事件发布端口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
	PublishInTx(ctx context.Context, tx any, topic string, key string, event any) error
}
