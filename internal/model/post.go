package model

import "time"

// Post 推文主体；点赞数即 Likes 的行数，不做冗余计数
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"type:varchar(64);not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_post_created;not null"`
	Likes     []Like    `json:"likes" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

func (Post) TableName() string { return "posts" }

// LikeCount 返回点赞数
func (p *Post) LikeCount() int { return len(p.Likes) }

// LikedBy 判断 username 是否已点赞
func (p *Post) LikedBy(username string) bool {
	for _, l := range p.Likes {
		if l.Username == username {
			return true
		}
	}
	return false
}
