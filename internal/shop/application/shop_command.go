package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/livecommerce/internal/shop/domain"
	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/idgen"
)

// AddProductCommand 上架商品命令
type AddProductCommand struct {
	SellerID uint
	Name     string
	Price    decimal.Decimal
	Stock    int64
}

// UpdateProductCommand 编辑商品命令，未设置的字段保持不变
type UpdateProductCommand struct {
	SellerID  uint
	ProductID string
	Patch     domain.ProductPatch
}

// ShopCommandService 商城命令服务
type ShopCommandService struct {
	products  domain.ProductRepository
	publisher domain.EventPublisher
}

// NewShopCommandService 创建商城命令服务实例
func NewShopCommandService(products domain.ProductRepository, publisher domain.EventPublisher) *ShopCommandService {
	return &ShopCommandService{products: products, publisher: publisher}
}

// AddProduct 上架商品并发布商品事件
func (s *ShopCommandService) AddProduct(ctx context.Context, cmd AddProductCommand) (string, error) {
	id := fmt.Sprintf("PRD-%d", idgen.GenID())
	product, err := domain.NewProduct(id, cmd.SellerID, cmd.Name, cmd.Price, cmd.Stock)
	if err != nil {
		return "", err
	}

	err = s.products.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.products.Save(txCtx, product); err != nil {
			return err
		}
		return s.publishInTx(ctx, txCtx, domain.ProductAddedEventType, product)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateProduct 编辑商品。这是除结算外唯一允许修改库存的路径。
func (s *ShopCommandService) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) error {
	return s.products.WithTx(ctx, func(txCtx context.Context) error {
		product, err := s.products.GetByID(txCtx, cmd.SellerID, cmd.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		if err := product.Apply(cmd.Patch); err != nil {
			return err
		}
		if err := s.products.Save(txCtx, product); err != nil {
			return err
		}
		return s.publishInTx(ctx, txCtx, domain.ProductUpdatedEventType, product)
	})
}

// DeleteProduct 下架商品
func (s *ShopCommandService) DeleteProduct(ctx context.Context, sellerID uint, productID string) error {
	return s.products.WithTx(ctx, func(txCtx context.Context) error {
		product, err := s.products.GetByID(txCtx, sellerID, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		if err := s.products.Delete(txCtx, sellerID, productID); err != nil {
			return err
		}
		if s.publisher == nil {
			return nil
		}
		event := domain.ProductDeletedEvent{
			ProductID: productID,
			SellerID:  sellerID,
			Timestamp: time.Now(),
		}
		return s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), domain.ProductDeletedEventType, productID, event)
	})
}

func (s *ShopCommandService) publishInTx(ctx, txCtx context.Context, eventType string, product *domain.Product) error {
	if s.publisher == nil {
		return nil
	}
	event := domain.ProductEvent{
		ProductID:  product.ID,
		SellerID:   product.SellerID,
		Name:       product.Name,
		Price:      product.Price,
		Stock:      product.Stock,
		NumberSold: product.NumberSold,
		Timestamp:  time.Now(),
	}
	return s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), eventType, product.ID, event)
}
