package domain

import "context"

// ProductRepository 商品仓储。ListBySeller 按名称升序返回。
type ProductRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Save(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, sellerID uint, productID string) (*Product, error)
	ListBySeller(ctx context.Context, sellerID uint) ([]*Product, error)
	Delete(ctx context.Context, sellerID uint, productID string) error
}

// SellerRepository 卖家投影仓储
type SellerRepository interface {
	Save(ctx context.Context, seller *Seller) error
	GetByUsername(ctx context.Context, username string) (*Seller, error)
}
