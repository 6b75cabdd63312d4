package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/tweetfeed/internal/model"
)

type LikeRepository interface {
	Find(ctx context.Context, postID uint, username string) (*model.Like, error)
	// Create 返回 created=false 表示 (post, username) 已存在
	Create(ctx context.Context, postID uint, username string) (bool, error)
	// Delete 返回 deleted=false 表示本来就没有这条记录
	Delete(ctx context.Context, postID uint, username string) (bool, error)
	CountByPost(ctx context.Context, postID uint) (int64, error)
}

type likeRepository struct{ db *gorm.DB }

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Find(ctx context.Context, postID uint, username string) (*model.Like, error) {
	var l model.Like
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND username = ?", postID, username).
		Take(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *likeRepository) Create(ctx context.Context, postID uint, username string) (bool, error) {
	l := &model.Like{PostID: postID, Username: username}
	// 并发点赞撞上唯一键时不报错，由 RowsAffected 区分
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "username"}},
			DoNothing: true,
		}).
		Create(l)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) Delete(ctx context.Context, postID uint, username string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND username = ?", postID, username).
		Delete(&model.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) CountByPost(ctx context.Context, postID uint) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).Where("post_id = ?", postID).Count(&cnt).Error
	return cnt, err
}
