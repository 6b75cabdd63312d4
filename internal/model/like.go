package model

import "time"

// Like 点赞记录
type Like struct {
	ID       uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	PostID   uint   `json:"-" gorm:"not null;index:idx_like_post;uniqueIndex:ux_like_post_user"`
	Username string `json:"username" gorm:"type:varchar(64);not null;uniqueIndex:ux_like_post_user"`
	// 复合唯一键，同一用户对同一帖子至多一条
	// ux_like_post_user = (post_id, username)
	CreatedAt time.Time `json:"-"`
}

func (Like) TableName() string { return "likes" }
