package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/livecommerce/internal/stream/domain"
)

type fakeStreamRepo struct {
	streams map[string]*domain.Livestream
}

func newFakeStreamRepo() *fakeStreamRepo {
	return &fakeStreamRepo{streams: make(map[string]*domain.Livestream)}
}

func (r *fakeStreamRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *fakeStreamRepo) Save(ctx context.Context, stream *domain.Livestream) error {
	copied := *stream
	r.streams[stream.ID] = &copied
	return nil
}

func (r *fakeStreamRepo) GetByID(ctx context.Context, id string) (*domain.Livestream, error) {
	stream, ok := r.streams[id]
	if !ok {
		return nil, nil
	}
	copied := *stream
	return &copied, nil
}

func (r *fakeStreamRepo) ListByHost(ctx context.Context, hostID uint) ([]*domain.Livestream, error) {
	var streams []*domain.Livestream
	for _, stream := range r.streams {
		if stream.HostID == hostID {
			streams = append(streams, stream)
		}
	}
	return streams, nil
}

type fakePlatform struct {
	calls    []domain.CallSpec
	channels []string
	live     []string
	ended    []string
	users    []string
	queried  []domain.PlatformCall
}

func (p *fakePlatform) GetOrCreateCall(ctx context.Context, spec domain.CallSpec) error {
	p.calls = append(p.calls, spec)
	return nil
}

func (p *fakePlatform) CreateChannel(ctx context.Context, channelID string, name string, creatorID string) error {
	p.channels = append(p.channels, channelID)
	return nil
}

func (p *fakePlatform) GoLive(ctx context.Context, callID string) error {
	p.live = append(p.live, callID)
	return nil
}

func (p *fakePlatform) EndCall(ctx context.Context, callID string) error {
	p.ended = append(p.ended, callID)
	return nil
}

func (p *fakePlatform) QueryLiveCalls(ctx context.Context, limit int) ([]domain.PlatformCall, error) {
	return p.queried, nil
}

func (p *fakePlatform) UpsertUser(ctx context.Context, id string, name string, image string) error {
	p.users = append(p.users, id)
	return nil
}

func TestCreateLivestream(t *testing.T) {
	repo := newFakeStreamRepo()
	platform := &fakePlatform{}
	svc := NewStreamCommandService(repo, platform, nil)

	stream, err := svc.CreateLivestream(context.Background(), CreateLivestreamCommand{
		HostID:   7,
		HostName: "alice",
		Title:    "My First Stream",
		Hashtags: []string{"beauty"},
	})
	require.NoError(t, err)

	assert.Contains(t, stream.ID, "my-first-stream-")
	assert.False(t, stream.Live, "streams start in backstage")

	require.Len(t, platform.calls, 1)
	assert.Equal(t, stream.ID, platform.calls[0].ID)
	assert.Equal(t, "7", platform.calls[0].HostID)
	assert.Equal(t, []string{stream.ID}, platform.channels)

	stored, _ := repo.GetByID(context.Background(), stream.ID)
	require.NotNil(t, stored)
}

func TestCreateLivestreamRequiresTitle(t *testing.T) {
	svc := NewStreamCommandService(newFakeStreamRepo(), &fakePlatform{}, nil)

	_, err := svc.CreateLivestream(context.Background(), CreateLivestreamCommand{HostID: 7})
	assert.ErrorIs(t, err, domain.ErrInvalidTitle)
}

func TestGoLiveAndEndStream(t *testing.T) {
	repo := newFakeStreamRepo()
	platform := &fakePlatform{}
	svc := NewStreamCommandService(repo, platform, nil)

	stream, err := svc.CreateLivestream(context.Background(), CreateLivestreamCommand{
		HostID: 7, HostName: "alice", Title: "Unboxing",
	})
	require.NoError(t, err)

	require.NoError(t, svc.GoLive(context.Background(), 7, stream.ID))
	stored, _ := repo.GetByID(context.Background(), stream.ID)
	assert.True(t, stored.Live)
	assert.Equal(t, []string{stream.ID}, platform.live)

	require.NoError(t, svc.EndStream(context.Background(), 7, stream.ID))
	stored, _ = repo.GetByID(context.Background(), stream.ID)
	assert.False(t, stored.Live)
	require.NotNil(t, stored.EndedAt)
	assert.Equal(t, []string{stream.ID}, platform.ended)
}

func TestStreamTransitionsAreHostOnly(t *testing.T) {
	repo := newFakeStreamRepo()
	svc := NewStreamCommandService(repo, &fakePlatform{}, nil)

	stream, err := svc.CreateLivestream(context.Background(), CreateLivestreamCommand{
		HostID: 7, HostName: "alice", Title: "Unboxing",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.GoLive(context.Background(), 8, stream.ID), domain.ErrNotHost)
	assert.ErrorIs(t, svc.EndStream(context.Background(), 8, stream.ID), domain.ErrNotHost)
	assert.ErrorIs(t, svc.GoLive(context.Background(), 7, "missing"), domain.ErrStreamNotFound)
}
