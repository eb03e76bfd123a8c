package application

import (
	"context"

	"github.com/wyfcoding/livecommerce/internal/auth/domain"
)

// AuthQueryService 认证查询服务
type AuthQueryService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
}

// NewAuthQueryService 创建认证查询服务实例
func NewAuthQueryService(users domain.UserRepository, sessions domain.SessionRepository) *AuthQueryService {
	return &AuthQueryService{users: users, sessions: sessions}
}

// Authenticate 根据会话令牌解析当前用户，令牌无效或过期返回 nil
func (s *AuthQueryService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, nil
	}
	return s.sessions.Get(ctx, token)
}

// GetProfile 查询用户资料
func (s *AuthQueryService) GetProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}
