package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/d60-Lab/tweetfeed/internal/model"
	"github.com/d60-Lab/tweetfeed/internal/repository"
	"github.com/d60-Lab/tweetfeed/pkg/cache"
	"github.com/d60-Lab/tweetfeed/pkg/logger"
)

// DefaultMaxContentLength 推文最大字符数（按 rune 计）
const DefaultMaxContentLength = 280

var tracer = otel.Tracer("feed-service")

// FeedService 推文服务
type FeedService interface {
	List(ctx context.Context) ([]*model.Post, error)
	Get(ctx context.Context, postID uint) (*model.Post, error)
	Create(ctx context.Context, username, content string) (*model.Post, error)
	// ToggleLike 已赞则取消、未赞则点赞，返回最新的帖子
	ToggleLike(ctx context.Context, postID uint, username string) (*model.Post, error)
}

type feedService struct {
	postRepo   repository.PostRepository
	likeRepo   repository.LikeRepository
	cache      cache.FeedCache
	maxContent int
	now        func() time.Time
}

// Option 调整 feedService 的可选参数
type Option func(*feedService)

// WithCache 启用列表缓存
func WithCache(c cache.FeedCache) Option {
	return func(s *feedService) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithMaxContentLength 覆盖推文长度上限
func WithMaxContentLength(n int) Option {
	return func(s *feedService) {
		if n > 0 {
			s.maxContent = n
		}
	}
}

// WithClock 替换时间源（测试用）
func WithClock(now func() time.Time) Option {
	return func(s *feedService) { s.now = now }
}

func NewFeedService(postRepo repository.PostRepository, likeRepo repository.LikeRepository, opts ...Option) FeedService {
	s := &feedService{
		postRepo:   postRepo,
		likeRepo:   likeRepo,
		cache:      cache.NewNopFeedCache(),
		maxContent: DefaultMaxContentLength,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *feedService) List(ctx context.Context) (_ []*model.Post, err error) {
	ctx, span := tracer.Start(ctx, "FeedService.List")
	defer func() { endSpan(span, err) }()

	// 代数在读库之前取，Set 时据此丢弃过期快照
	cached, gen, hit, cerr := s.cache.Get(ctx)
	if cerr != nil {
		logger.Warn("feed cache get failed", zap.Error(cerr))
	} else if hit {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}

	posts, err := s.postRepo.ListNewest(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	// 没拿到代数就不回填
	if cerr == nil {
		if serr := s.cache.Set(ctx, gen, posts); serr != nil {
			logger.Warn("feed cache set failed", zap.Error(serr))
		}
	}
	span.SetAttributes(attribute.Int("feed.size", len(posts)))
	return posts, nil
}

func (s *feedService) Get(ctx context.Context, postID uint) (_ *model.Post, err error) {
	ctx, span := tracer.Start(ctx, "FeedService.Get", trace.WithAttributes(attribute.Int64("post.id", int64(postID))))
	defer func() { endSpan(span, err) }()

	post, err := s.postRepo.GetByID(ctx, postID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrPostNotFound, postID)
	}
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", postID, err)
	}
	return post, nil
}

func (s *feedService) Create(ctx context.Context, username, content string) (_ *model.Post, err error) {
	ctx, span := tracer.Start(ctx, "FeedService.Create")
	defer func() { endSpan(span, err) }()

	username = strings.TrimSpace(username)
	content = strings.TrimSpace(content)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(content); n > s.maxContent {
		return nil, fmt.Errorf("%w: content has %d characters, limit is %d", ErrInvalidInput, n, s.maxContent)
	}

	post := &model.Post{Username: username, Content: content, CreatedAt: s.now()}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.invalidate(ctx)

	span.SetAttributes(attribute.Int64("post.id", int64(post.ID)))
	return post, nil
}

func (s *feedService) ToggleLike(ctx context.Context, postID uint, username string) (_ *model.Post, err error) {
	ctx, span := tracer.Start(ctx, "FeedService.ToggleLike", trace.WithAttributes(attribute.Int64("post.id", int64(postID))))
	defer func() { endSpan(span, err) }()

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	ok, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("check post %d: %w", postID, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrPostNotFound, postID)
	}

	_, err = s.likeRepo.Find(ctx, postID, username)
	switch {
	case err == nil:
		deleted, derr := s.likeRepo.Delete(ctx, postID, username)
		if derr != nil {
			return nil, fmt.Errorf("unlike post %d: %w", postID, derr)
		}
		if !deleted {
			// 并发的另一次取消已经删掉了
			logger.Debug("unlike raced, already removed", zap.Uint("post_id", postID), zap.String("username", username))
		}
		span.SetAttributes(attribute.String("like.action", "unlike"))
	case errors.Is(err, repository.ErrNotFound):
		created, cerr := s.likeRepo.Create(ctx, postID, username)
		if cerr != nil {
			return nil, fmt.Errorf("like post %d: %w", postID, cerr)
		}
		if !created {
			// 唯一键冲突：并发的另一次点赞已落地，目标状态已达成
			logger.Debug("like raced, already present", zap.Uint("post_id", postID), zap.String("username", username))
		}
		span.SetAttributes(attribute.String("like.action", "like"))
	default:
		return nil, fmt.Errorf("find like: %w", err)
	}
	s.invalidate(ctx)

	return s.Get(ctx, postID)
}

func (s *feedService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warn("feed cache invalidate failed", zap.Error(err))
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
