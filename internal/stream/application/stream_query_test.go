package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/livecommerce/internal/stream/domain"
)

func TestListFeedWithLiveCalls(t *testing.T) {
	platform := &fakePlatform{queried: []domain.PlatformCall{{ID: "c1"}, {ID: "c2"}}}
	svc := NewStreamQueryService(newFakeStreamRepo(), platform, domain.Ad{ID: "ad-1"})

	feed, err := svc.ListFeed(context.Background())
	require.NoError(t, err)

	require.Len(t, feed, 3)
	assert.Equal(t, "c1", feed[0].Call.ID)
	assert.Equal(t, domain.FeedItemTypeAd, feed[1].Type)
	assert.Equal(t, "c2", feed[2].Call.ID)
}

func TestListFeedNoLiveCalls(t *testing.T) {
	svc := NewStreamQueryService(newFakeStreamRepo(), &fakePlatform{}, domain.Ad{ID: "ad-1"})

	feed, err := svc.ListFeed(context.Background())
	require.NoError(t, err)

	require.Len(t, feed, 1)
	assert.Equal(t, domain.FeedItemTypeAd, feed[0].Type)
}

func TestGetStreamNotFound(t *testing.T) {
	svc := NewStreamQueryService(newFakeStreamRepo(), &fakePlatform{}, domain.Ad{})

	_, err := svc.GetStream(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrStreamNotFound)
}
