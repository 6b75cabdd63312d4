package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/tweetfeed/internal/render"
	"github.com/d60-Lab/tweetfeed/internal/service"
	"github.com/d60-Lab/tweetfeed/pkg/response"
)

type createTweetRequest struct {
	Content  string `json:"content" binding:"required,notblank"`
	Username string `json:"username" binding:"required,notblank"`
}

type toggleLikeRequest struct {
	ID       uint   `json:"id" binding:"required"`
	Username string `json:"username" binding:"required,notblank"`
}

// ListTweets 推文列表
// @Summary 推文列表（按创建时间倒序，含点赞）
// @Tags 推文
// @Produce json
// @Success 200 {array} model.Post
// @Failure 500 {object} response.Response
// @Router /api/tweets [get]
func (h *Handler) ListTweets(c *gin.Context) {
	posts, err := h.feedService.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, posts)
}

// CreateTweet 发推
// @Summary 发布推文
// @Tags 推文
// @Accept json
// @Produce json
// @Param request body createTweetRequest true "推文内容"
// @Success 200 {object} model.Post
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/tweets [post]
func (h *Handler) CreateTweet(c *gin.Context) {
	var req createTweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.feedService.Create(c.Request.Context(), req.Username, req.Content)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	response.OK(c, post)
}

// ToggleLike 点赞/取消点赞
// @Summary 切换点赞状态（非幂等）
// @Tags 推文
// @Accept json
// @Produce json
// @Param request body toggleLikeRequest true "帖子 ID 与用户名"
// @Success 200 {object} model.Post
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/tweets [put]
func (h *Handler) ToggleLike(c *gin.Context) {
	var req toggleLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.feedService.ToggleLike(c.Request.Context(), req.ID, req.Username)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	response.OK(c, post)
}

// RenderTweet 推文渲染指令
// @Summary 返回推文正文的渲染指令（文本 / 内嵌视频）
// @Tags 推文
// @Produce json
// @Param id path int true "帖子ID"
// @Success 200 {array} render.Instruction
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/tweets/{id}/render [get]
func (h *Handler) RenderTweet(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid id")
		return
	}
	post, err := h.feedService.Get(c.Request.Context(), uint(id))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	response.OK(c, render.Render(post.Content))
}

func (h *Handler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrPostNotFound):
		response.NotFound(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
