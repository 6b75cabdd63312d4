package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/tweetfeed/config"
	"github.com/d60-Lab/tweetfeed/internal/model"
)

func newTestCache(t *testing.T) (FeedCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisFeedCache(client, time.Minute), mr
}

func TestRedisFeedCache_RoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, gen, hit, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.EqualValues(t, 0, gen)

	posts := []*model.Post{{ID: 2, Username: "bob", Content: "b", Likes: []model.Like{{ID: 1, Username: "alice"}}}, {ID: 1, Username: "alice", Content: "a", Likes: []model.Like{}}}
	require.NoError(t, c.Set(ctx, gen, posts))
	assert.True(t, mr.Exists(FeedKey))
	assert.Equal(t, time.Minute, mr.TTL(FeedKey))

	got, _, hit, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, hit)
	require.Len(t, got, 2)
	assert.Equal(t, uint(2), got[0].ID)
	assert.Equal(t, "alice", got[0].Likes[0].Username)

	require.NoError(t, c.Invalidate(ctx))
	_, gen, hit, err = c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.EqualValues(t, 1, gen)
}

func TestRedisFeedCache_Expires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 0, []*model.Post{}))
	mr.FastForward(2 * time.Minute)

	_, _, hit, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisFeedCache_CorruptSnapshotIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set(FeedKey, "{not json"))

	_, _, hit, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, mr.Exists(FeedKey))
}

func TestRedisFeedCache_SetAfterInvalidateIsDropped(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, gen, hit, err := c.Get(ctx)
	require.NoError(t, err)
	require.False(t, hit)

	// 读库期间发生了一次写入
	require.NoError(t, c.Invalidate(ctx))

	stale := []*model.Post{{ID: 1, Username: "alice", Content: "old", Likes: []model.Like{}}}
	require.NoError(t, c.Set(ctx, gen, stale))
	assert.False(t, mr.Exists(FeedKey))

	_, gen, _, err = c.Get(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, gen, stale))
	assert.True(t, mr.Exists(FeedKey))
}

func TestRedisFeedCache_ServerDown(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	_, _, _, err := c.Get(context.Background())
	assert.Error(t, err)
	assert.Error(t, c.Invalidate(context.Background()))
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	_, err = NewRedisClient(context.Background(), config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestNopFeedCache(t *testing.T) {
	c := NewNopFeedCache()
	require.NoError(t, c.Set(context.Background(), 0, []*model.Post{{ID: 1}}))
	_, _, hit, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
}
