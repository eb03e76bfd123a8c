package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProductAddedEventType   = "shop.product.added"
	ProductUpdatedEventType = "shop.product.updated"
	ProductDeletedEventType = "shop.product.deleted"
)

// ProductEvent 商品变更事件，店铺页与卖家仪表盘订阅该主题
// 获得最终一致的商品快照。
type ProductEvent struct {
	ProductID  string          `json:"product_id"`
	SellerID   uint            `json:"seller_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Stock      int64           `json:"stock"`
	NumberSold int64           `json:"number_sold"`
	Timestamp  time.Time       `json:"timestamp"`
}

// ProductDeletedEvent 商品删除事件
type ProductDeletedEvent struct {
	ProductID string    `json:"product_id"`
	SellerID  uint      `json:"seller_id"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher 领域事件发布者
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
	PublishInTx(ctx context.Context, tx any, topic string, key string, event any) error
}
