package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/tweetfeed/internal/model"
)

const (
	// FeedKey 整个时间线（新到旧）的快照
	FeedKey = "feed:posts"
	// GenKey 失效代数，每次 Invalidate 自增
	GenKey = "feed:gen"
)

// FeedCache 时间线快照缓存
//
// 未命中时 Get 返回当前代数，Set 只在代数未变时写入，
// 读库期间发生的写操作不会被旧快照覆盖。
type FeedCache interface {
	Get(ctx context.Context) (posts []*model.Post, gen int64, hit bool, err error)
	Set(ctx context.Context, gen int64, posts []*model.Post) error
	Invalidate(ctx context.Context) error
}

type redisFeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisFeedCache(client *redis.Client, ttl time.Duration) FeedCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &redisFeedCache{client: client, ttl: ttl}
}

func (c *redisFeedCache) Get(ctx context.Context) ([]*model.Post, int64, bool, error) {
	var snap, gen *redis.StringCmd
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		snap = pipe.Get(ctx, FeedKey)
		gen = pipe.Get(ctx, GenKey)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, err
	}

	g, err := gen.Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, err
	}
	data, err := snap.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, g, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}

	var out []*model.Post
	if err := json.Unmarshal(data, &out); err != nil {
		// 损坏的快照直接丢弃
		_ = c.client.Del(ctx, FeedKey).Err()
		return nil, g, false, nil
	}
	return out, g, true, nil
}

func (c *redisFeedCache) Set(ctx context.Context, gen int64, posts []*model.Post) error {
	payload, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, GenKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			// 读库期间已有写入，这份快照过期了
			return redis.TxFailedErr
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, FeedKey, payload, c.ttl)
			return nil
		})
		return err
	}, GenKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *redisFeedCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenKey)
		pipe.Del(ctx, FeedKey)
		return nil
	})
	return err
}

type nopFeedCache struct{}

// NewNopFeedCache 永不命中的缓存，未启用 redis 时使用
func NewNopFeedCache() FeedCache { return nopFeedCache{} }

func (nopFeedCache) Get(context.Context) ([]*model.Post, int64, bool, error) {
	return nil, 0, false, nil
}
func (nopFeedCache) Set(context.Context, int64, []*model.Post) error { return nil }
func (nopFeedCache) Invalidate(context.Context) error               { return nil }
