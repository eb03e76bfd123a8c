package domain

import "context"

// CartRepository 会话购物车存储。购物车随会话过期一并丢弃。
type CartRepository interface {
	// Get 返回会话的购物车，不存在时返回 (nil, nil)
	Get(ctx context.Context, sessionToken string) (*Cart, error)
	Save(ctx context.Context, sessionToken string, cart *Cart) error
	Delete(ctx context.Context, sessionToken string) error
}

// ProductProvider 跨上下文的商品读取端口，加购时取快照
type ProductProvider interface {
	// GetProduct 返回商品快照，商品不存在时返回 (nil, nil)
	GetProduct(ctx context.Context, productID string) (*ProductSnapshot, error)
}
