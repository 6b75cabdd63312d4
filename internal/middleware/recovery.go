package middleware

import (
	"fmt"
	"runtime/debug"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/tweetfeed/pkg/logger"
	"github.com/d60-Lab/tweetfeed/pkg/response"
)

// Recovery 捕获 panic，记录堆栈并返回 500
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("error", r),
					zap.String("stack", string(debug.Stack())),
					zap.String("request_id", GetRequestID(c)),
				)
				if hub := sentrygin.GetHubFromContext(c); hub != nil {
					hub.Recover(r)
				}
				response.InternalError(c, fmt.Errorf("panic: %v", r))
			}
		}()
		c.Next()
	}
}
