package application

import (
	"context"

	"github.com/wyfcoding/livecommerce/internal/cart/domain"
)

// CartService 会话购物车服务。加购/减量/移除都同步完成，
// ErrStockLimit 与 ErrOutOfStock 是提示性信号，购物车内容保持不变。
type CartService struct {
	carts    domain.CartRepository
	products domain.ProductProvider
}

// NewCartService 创建购物车服务实例
func NewCartService(carts domain.CartRepository, products domain.ProductProvider) *CartService {
	return &CartService{carts: carts, products: products}
}

// GetCart 返回会话购物车，不存在时返回空购物车
func (s *CartService) GetCart(ctx context.Context, sessionToken string) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return domain.NewCart(), nil
	}
	return cart, nil
}

// AddItem 以当前商品快照加购。命中库存信号时返回未变更的购物车和对应错误。
func (s *CartService) AddItem(ctx context.Context, sessionToken string, productID string) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return cart, domain.ErrProductUnavailable
	}
	if err := cart.Add(*product); err != nil {
		return cart, err
	}
	if err := s.carts.Save(ctx, sessionToken, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// DecreaseItem 数量减一，数量为 1 时保持不变
func (s *CartService) DecreaseItem(ctx context.Context, sessionToken string, productID string) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	cart.Decrease(productID)
	if err := s.carts.Save(ctx, sessionToken, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem 移除条目
func (s *CartService) RemoveItem(ctx context.Context, sessionToken string, productID string) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	cart.Remove(productID)
	if err := s.carts.Save(ctx, sessionToken, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearCart 清空并删除会话购物车
func (s *CartService) ClearCart(ctx context.Context, sessionToken string) error {
	return s.carts.Delete(ctx, sessionToken)
}
