package application

import (
	"context"

	"github.com/wyfcoding/livecommerce/internal/shop/domain"
)

// SellerProjectionService 消费认证服务的注册事件，维护卖家读模型
type SellerProjectionService struct {
	sellers domain.SellerRepository
}

// NewSellerProjectionService 创建卖家投影服务实例
func NewSellerProjectionService(sellers domain.SellerRepository) *SellerProjectionService {
	return &SellerProjectionService{sellers: sellers}
}

// ApplyUserRegistered 将注册事件写入卖家投影，重复投递时幂等覆盖
func (s *SellerProjectionService) ApplyUserRegistered(ctx context.Context, userID uint, username string) error {
	return s.sellers.Save(ctx, &domain.Seller{UserID: userID, Username: username})
}
