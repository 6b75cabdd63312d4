package response

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/tweetfeed/pkg/logger"
)

// 业务错误码
const (
	CodeBadRequest = 40000
	CodeNotFound   = 40400
	CodeInternal   = 50000
)

// Response 错误响应体；成功时直接返回实体
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OK 200 + 实体
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Response{Code: CodeBadRequest, Message: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusNotFound, Response{Code: CodeNotFound, Message: msg})
}

// InternalError 记录日志并上报 Sentry，对外不暴露内部错误细节
func InternalError(c *gin.Context, err error) {
	logger.Error("request failed",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
	)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, Response{Code: CodeInternal, Message: "internal server error"})
}
