package handler

import (
	"gorm.io/gorm"

	"github.com/d60-Lab/tweetfeed/internal/service"
)

// Handler 汇总各路由的处理函数
type Handler struct {
	feedService service.FeedService
	db          *gorm.DB
}

func NewHandler(feedService service.FeedService, db *gorm.DB) *Handler {
	return &Handler{feedService: feedService, db: db}
}
