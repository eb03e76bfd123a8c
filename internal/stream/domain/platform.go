package domain

import (
	"context"
	"time"
)

// CallSpec 创建平台通话的参数
type CallSpec struct {
	ID          string
	Title       string
	Description string
	Hashtags    []string
	HostID      string
	HostName    string
}

// PlatformCall 平台侧的直播通话视图
type PlatformCall struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Hashtags    []string  `json:"hashtags"`
	HostID      string    `json:"host_id"`
	HostName    string    `json:"host_name"`
	StartsAt    time.Time `json:"starts_at"`
}

// Platform 托管音视频/聊天平台的端口
type Platform interface {
	// GetOrCreateCall 幂等创建直播通话，宿主以 host 角色加入
	GetOrCreateCall(ctx context.Context, spec CallSpec) error
	// CreateChannel 创建直播聊天频道，创建者自动成为成员
	CreateChannel(ctx context.Context, channelID string, name string, creatorID string) error
	GoLive(ctx context.Context, callID string) error
	EndCall(ctx context.Context, callID string) error
	// QueryLiveCalls 查询进行中的直播，新开播在前
	QueryLiveCalls(ctx context.Context, limit int) ([]PlatformCall, error)
	// UpsertUser 幂等同步平台用户
	UpsertUser(ctx context.Context, id string, name string, image string) error
}
