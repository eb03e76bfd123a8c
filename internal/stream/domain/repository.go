package domain

import "context"

// LivestreamRepository 直播场次存储
type LivestreamRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Save(ctx context.Context, stream *Livestream) error
	// GetByID 不存在时返回 (nil, nil)
	GetByID(ctx context.Context, id string) (*Livestream, error)
	ListByHost(ctx context.Context, hostID uint) ([]*Livestream, error)
}
