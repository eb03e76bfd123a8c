package application

import (
	"context"

	"github.com/wyfcoding/livecommerce/internal/shop/domain"
)

// ShopView 店铺公开页视图
type ShopView struct {
	SellerID uint              `json:"seller_id"`
	Username string            `json:"username"`
	Products []*domain.Product `json:"products"`
}

// ShopQueryService 商城查询服务
type ShopQueryService struct {
	products domain.ProductRepository
	sellers  domain.SellerRepository
}

// NewShopQueryService 创建商城查询服务实例
func NewShopQueryService(products domain.ProductRepository, sellers domain.SellerRepository) *ShopQueryService {
	return &ShopQueryService{products: products, sellers: sellers}
}

// ListProducts 按名称升序列出卖家商品
func (s *ShopQueryService) ListProducts(ctx context.Context, sellerID uint) ([]*domain.Product, error) {
	return s.products.ListBySeller(ctx, sellerID)
}

// GetProduct 查询单个商品
func (s *ShopQueryService) GetProduct(ctx context.Context, sellerID uint, productID string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

// GetShopByUsername 店铺公开页：先把用户名解析成卖家，再取商品列表
func (s *ShopQueryService) GetShopByUsername(ctx context.Context, username string) (*ShopView, error) {
	seller, err := s.sellers.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, domain.ErrSellerNotFound
	}
	products, err := s.products.ListBySeller(ctx, seller.UserID)
	if err != nil {
		return nil, err
	}
	return &ShopView{
		SellerID: seller.UserID,
		Username: seller.Username,
		Products: products,
	}, nil
}
