package application

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/livecommerce/internal/stream/domain"
	"github.com/wyfcoding/pkg/contextx"
)

// CreateLivestreamCommand 开播准备命令
type CreateLivestreamCommand struct {
	HostID      uint
	HostName    string
	Title       string
	Description string
	Hashtags    []string
}

// StreamCommandService 直播命令服务。平台调用在事务外先行，
// 场次记录与事件在同一事务内落库。
type StreamCommandService struct {
	streams   domain.LivestreamRepository
	platform  domain.Platform
	publisher domain.EventPublisher
}

// NewStreamCommandService 创建直播命令服务实例
func NewStreamCommandService(streams domain.LivestreamRepository, platform domain.Platform, publisher domain.EventPublisher) *StreamCommandService {
	return &StreamCommandService{streams: streams, platform: platform, publisher: publisher}
}

// CreateLivestream 生成 slug、幂等创建平台通话与聊天频道、落库场次记录
func (s *StreamCommandService) CreateLivestream(ctx context.Context, cmd CreateLivestreamCommand) (*domain.Livestream, error) {
	if cmd.Title == "" {
		return nil, domain.ErrInvalidTitle
	}
	id := domain.GenerateSlug(cmd.Title)
	hostID := fmt.Sprintf("%d", cmd.HostID)

	if err := s.platform.GetOrCreateCall(ctx, domain.CallSpec{
		ID:          id,
		Title:       cmd.Title,
		Description: cmd.Description,
		Hashtags:    cmd.Hashtags,
		HostID:      hostID,
		HostName:    cmd.HostName,
	}); err != nil {
		return nil, fmt.Errorf("failed to create platform call: %w", err)
	}
	if err := s.platform.CreateChannel(ctx, id, cmd.Title, hostID); err != nil {
		return nil, fmt.Errorf("failed to create chat channel: %w", err)
	}

	stream := &domain.Livestream{
		ID:          id,
		HostID:      cmd.HostID,
		HostName:    cmd.HostName,
		Title:       cmd.Title,
		Description: cmd.Description,
		Hashtags:    cmd.Hashtags,
	}
	err := s.streams.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.streams.Save(txCtx, stream); err != nil {
			return err
		}
		return s.publishInTx(ctx, txCtx, domain.StreamCreatedEventType, stream)
	})
	if err != nil {
		return nil, err
	}
	return stream, nil
}

// GoLive 开播，仅宿主可操作
func (s *StreamCommandService) GoLive(ctx context.Context, hostID uint, streamID string) error {
	stream, err := s.loadOwned(ctx, hostID, streamID)
	if err != nil {
		return err
	}
	if err := s.platform.GoLive(ctx, streamID); err != nil {
		return fmt.Errorf("failed to go live: %w", err)
	}
	stream.Live = true
	return s.streams.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.streams.Save(txCtx, stream); err != nil {
			return err
		}
		return s.publishInTx(ctx, txCtx, domain.StreamLiveEventType, stream)
	})
}

// EndStream 结束直播，结束后的场次不再出现在信息流里
func (s *StreamCommandService) EndStream(ctx context.Context, hostID uint, streamID string) error {
	stream, err := s.loadOwned(ctx, hostID, streamID)
	if err != nil {
		return err
	}
	if err := s.platform.EndCall(ctx, streamID); err != nil {
		return fmt.Errorf("failed to end call: %w", err)
	}
	now := time.Now()
	stream.Live = false
	stream.EndedAt = &now
	return s.streams.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.streams.Save(txCtx, stream); err != nil {
			return err
		}
		return s.publishInTx(ctx, txCtx, domain.StreamEndedEventType, stream)
	})
}

func (s *StreamCommandService) loadOwned(ctx context.Context, hostID uint, streamID string) (*domain.Livestream, error) {
	stream, err := s.streams.GetByID(ctx, streamID)
	if err != nil {
		return nil, err
	}
	if stream == nil {
		return nil, domain.ErrStreamNotFound
	}
	if stream.HostID != hostID {
		return nil, domain.ErrNotHost
	}
	return stream, nil
}

func (s *StreamCommandService) publishInTx(ctx, txCtx context.Context, eventType string, stream *domain.Livestream) error {
	if s.publisher == nil {
		return nil
	}
	event := domain.StreamEvent{
		StreamID:  stream.ID,
		HostID:    stream.HostID,
		Title:     stream.Title,
		Live:      stream.Live,
		Timestamp: time.Now(),
	}
	return s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), eventType, stream.ID, event)
}
