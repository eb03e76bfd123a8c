package domain

import (
	"context"
	"time"
)

const (
	StreamCreatedEventType = "stream.created"
	StreamLiveEventType    = "stream.live"
	StreamEndedEventType   = "stream.ended"
)

// StreamEvent 直播场次状态事件
type StreamEvent struct {
	StreamID  string    `json:"stream_id"`
	HostID    uint      `json:"host_id"`
	Title     string    `json:"title"`
	Live      bool      `json:"live"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher 事件发布端口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
	PublishInTx(ctx context.Context, tx any, topic string, key string, event any) error
}
