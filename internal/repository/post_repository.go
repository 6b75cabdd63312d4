package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/tweetfeed/internal/model"
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id uint) (*model.Post, error)
	Exists(ctx context.Context, id uint) (bool, error)
	// ListNewest 按创建时间倒序返回全部帖子（含点赞），不分页
	ListNewest(ctx context.Context) ([]*model.Post, error)
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	if err := r.db.WithContext(ctx).Omit("Likes").Create(post).Error; err != nil {
		return err
	}
	post.Likes = []model.Like{}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).Preload("Likes", orderLikes).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	normalize(&p)
	return &p, nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *postRepository) ListNewest(ctx context.Context) ([]*model.Post, error) {
	res := make([]*model.Post, 0)
	err := r.db.WithContext(ctx).
		Preload("Likes", orderLikes).
		Order("created_at DESC").
		Order("id DESC").
		Find(&res).Error
	if err != nil {
		return nil, err
	}
	for _, p := range res {
		normalize(p)
	}
	return res, nil
}

func orderLikes(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }

// normalize 保证 likes 序列化为 [] 而不是 null
func normalize(p *model.Post) {
	if p.Likes == nil {
		p.Likes = []model.Like{}
	}
}
