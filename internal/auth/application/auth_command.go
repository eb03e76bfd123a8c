package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/wyfcoding/livecommerce/internal/auth/domain"
	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/logging"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 24 * time.Hour

// RegisterCommand 注册命令
type RegisterCommand struct {
	Username string
	Email    string
	Password string
}

// LoginCommand 登录命令
type LoginCommand struct {
	Email    string
	Password string
}

// AuthCommandService 认证命令服务
type AuthCommandService struct {
	users     domain.UserRepository
	sessions  domain.SessionRepository
	publisher domain.EventPublisher
}

// NewAuthCommandService 创建认证命令服务实例
func NewAuthCommandService(
	users domain.UserRepository,
	sessions domain.SessionRepository,
	publisher domain.EventPublisher,
) *AuthCommandService {
	return &AuthCommandService{
		users:     users,
		sessions:  sessions,
		publisher: publisher,
	}
}

// Register 处理用户注册。用户名与邮箱唯一性检查和写入在同一事务内完成。
func (s *AuthCommandService) Register(ctx context.Context, cmd RegisterCommand) (uint, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	var user *domain.User
	err = s.users.WithTx(ctx, func(txCtx context.Context) error {
		existing, err := s.users.GetByUsername(txCtx, domain.NormalizeUsername(cmd.Username))
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrUsernameTaken
		}

		existing, err = s.users.GetByEmail(txCtx, cmd.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailTaken
		}

		user = domain.NewUser(cmd.Username, cmd.Email, string(hash))
		if err := s.users.Save(txCtx, user); err != nil {
			return err
		}

		if s.publisher == nil {
			return nil
		}
		event := domain.UserRegisteredEvent{
			UserID:    user.ID,
			Username:  user.Username,
			Email:     user.Email,
			Timestamp: time.Now(),
		}
		return s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), domain.UserRegisteredEventType, user.Username, event)
	})
	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

// Login 处理用户登录。无论邮箱不存在还是密码错误都返回同一个错误，
// 避免暴露哪些邮箱已注册。
func (s *AuthCommandService) Login(ctx context.Context, cmd LoginCommand) (*domain.Session, error) {
	user, err := s.users.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := newSessionToken()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	session := &domain.Session{
		Token:     token,
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := domain.UserLoggedInEvent{
			UserID:    user.ID,
			Username:  user.Username,
			Timestamp: now,
		}
		// 登录事件只驱动下游同步，发布失败不阻断登录，但要留痕
		if err := s.publisher.Publish(ctx, domain.UserLoggedInEventType, user.Username, event); err != nil {
			logging.Error(ctx, "failed to publish user logged in event",
				"user_id", user.ID, "error", err)
		}
	}

	return session, nil
}

// Logout 处理用户登出。会话不存在也视为成功。
func (s *AuthCommandService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
