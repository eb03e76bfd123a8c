package catalog

import (
	"context"
	"errors"

	cartdomain "github.com/wyfcoding/livecommerce/internal/cart/domain"
	shopdomain "github.com/wyfcoding/livecommerce/internal/shop/domain"
	"gorm.io/gorm"
)

// productProvider 购物车上下文对商品库的只读适配器
type productProvider struct {
	db *gorm.DB
}

// NewProductProvider 创建商品读取适配器
func NewProductProvider(db *gorm.DB) cartdomain.ProductProvider {
	return &productProvider{db: db}
}

func (p *productProvider) GetProduct(ctx context.Context, productID string) (*cartdomain.ProductSnapshot, error) {
	var product shopdomain.Product
	err := p.db.WithContext(ctx).Where("id = ?", productID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cartdomain.ProductSnapshot{
		ID:    product.ID,
		Name:  product.Name,
		Price: product.Price,
		Stock: product.Stock,
	}, nil
}
