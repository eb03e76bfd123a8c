package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/wyfcoding/livecommerce/internal/shop/application"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
)

// userRegisteredEvent 认证服务注册事件的本地载荷，只取投影需要的字段
type userRegisteredEvent struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// SellerProjectionHandler 消费注册事件并更新卖家读模型
type SellerProjectionHandler struct {
	projection *application.SellerProjectionService
	logger     *slog.Logger
}

func NewSellerProjectionHandler(projection *application.SellerProjectionService, logger *slog.Logger) *SellerProjectionHandler {
	return &SellerProjectionHandler{projection: projection, logger: logger}
}

// Subscribe 启动消费循环，阻塞直到 ctx 结束
func (h *SellerProjectionHandler) Subscribe(ctx context.Context, consumer *kafka.Consumer) {
	consumer.Start(ctx, 1, h.HandleUserRegistered)
}

func (h *SellerProjectionHandler) HandleUserRegistered(ctx context.Context, msg kafkago.Message) error {
	var event userRegisteredEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("failed to unmarshal user registered event", "error", err)
		// 无法解析的消息重试也不会成功，直接跳过
		return nil
	}
	if event.UserID == 0 || event.Username == "" {
		return nil
	}
	if err := h.projection.ApplyUserRegistered(ctx, event.UserID, event.Username); err != nil {
		return fmt.Errorf("failed to apply user registered event: %w", err)
	}
	h.logger.Info("seller projection updated", "user_id", event.UserID, "username", event.Username)
	return nil
}
