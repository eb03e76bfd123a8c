package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/wyfcoding/livecommerce/internal/stream/domain"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
)

// userLoggedInEvent 认证服务登录事件的本地载荷
type userLoggedInEvent struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// PlatformUserHandler 消费登录事件，把用户幂等同步到托管平台
type PlatformUserHandler struct {
	platform      domain.Platform
	avatarBaseURL string
	logger        *slog.Logger
}

func NewPlatformUserHandler(platform domain.Platform, avatarBaseURL string, logger *slog.Logger) *PlatformUserHandler {
	return &PlatformUserHandler{platform: platform, avatarBaseURL: avatarBaseURL, logger: logger}
}

// Subscribe 启动消费循环，阻塞直到 ctx 结束
func (h *PlatformUserHandler) Subscribe(ctx context.Context, consumer *kafka.Consumer) {
	consumer.Start(ctx, 1, h.HandleUserLoggedIn)
}

func (h *PlatformUserHandler) HandleUserLoggedIn(ctx context.Context, msg kafkago.Message) error {
	var event userLoggedInEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("failed to unmarshal user logged in event", "error", err)
		return nil
	}
	if event.UserID == 0 {
		return nil
	}
	id := fmt.Sprintf("%d", event.UserID)
	image := strings.TrimSuffix(h.avatarBaseURL, "/") + "/" + event.Username
	if err := h.platform.UpsertUser(ctx, id, event.Username, image); err != nil {
		return fmt.Errorf("failed to upsert platform user: %w", err)
	}
	h.logger.Info("platform user synced", "user_id", event.UserID, "username", event.Username)
	return nil
}
