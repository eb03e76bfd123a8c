package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyCart 空购物车不可结算
	ErrEmptyCart = errors.New("cart is empty")
	// ErrCheckoutInFlight 同一会话已有结算在途
	ErrCheckoutInFlight = errors.New("checkout already in flight")
	// ErrDuplicateCheckout 幂等键已被使用，之前的回执可查
	ErrDuplicateCheckout = errors.New("duplicate checkout")
	// ErrProductNotFound 购物车里的商品已不存在，整批回滚
	ErrProductNotFound = errors.New("product not found")
)

// Order 结算回执。IdempotencyKey 唯一索引保证同一次提交只落一单。
type Order struct {
	ID             string          `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	IdempotencyKey string          `gorm:"column:idempotency_key;type:varchar(64);uniqueIndex;not null" json:"idempotency_key"`
	UserID         uint            `gorm:"column:user_id;index;not null" json:"user_id"`
	Total          decimal.Decimal `gorm:"column:total;type:decimal(20,2);not null" json:"total"`
	ItemCount      int64           `gorm:"column:item_count;not null" json:"item_count"`
	Lines          []Line          `gorm:"column:lines;serializer:json;type:json" json:"lines"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (Order) TableName() string { return "orders" }
