package application

import (
	"context"

	"github.com/wyfcoding/livecommerce/internal/stream/domain"
)

const feedLimit = 25

// StreamQueryService 信息流与场次查询服务
type StreamQueryService struct {
	streams  domain.LivestreamRepository
	platform domain.Platform
	ad       domain.Ad
}

// NewStreamQueryService 创建查询服务实例，广告内容来自服务配置
func NewStreamQueryService(streams domain.LivestreamRepository, platform domain.Platform, ad domain.Ad) *StreamQueryService {
	return &StreamQueryService{streams: streams, platform: platform, ad: ad}
}

// ListFeed 查询进行中的直播并与赞助位合成信息流
func (s *StreamQueryService) ListFeed(ctx context.Context) ([]domain.FeedItem, error) {
	calls, err := s.platform.QueryLiveCalls(ctx, feedLimit)
	if err != nil {
		return nil, err
	}
	return domain.ComposeFeed(calls, s.ad), nil
}

// GetStream 查询单个场次
func (s *StreamQueryService) GetStream(ctx context.Context, id string) (*domain.Livestream, error) {
	stream, err := s.streams.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if stream == nil {
		return nil, domain.ErrStreamNotFound
	}
	return stream, nil
}

// ListMyStreams 宿主自己的场次列表
func (s *StreamQueryService) ListMyStreams(ctx context.Context, hostID uint) ([]*domain.Livestream, error) {
	return s.streams.ListByHost(ctx, hostID)
}
