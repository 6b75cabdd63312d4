package api

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/tweetfeed/config"
	"github.com/d60-Lab/tweetfeed/docs"
	"github.com/d60-Lab/tweetfeed/internal/api/handler"
	"github.com/d60-Lab/tweetfeed/internal/middleware"
)

// Options 可选中间件开关
type Options struct {
	Sentry  bool
	Tracing bool
}

// NewRouter 组装 gin 引擎与路由
func NewRouter(cfg *config.Config, h *handler.Handler, opts Options) (*gin.Engine, error) {
	gin.SetMode(cfg.Server.Mode)
	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger())
	if opts.Sentry {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(middleware.Recovery())
	if opts.Tracing {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/health", h.Health)

	docs.SwaggerInfo.BasePath = "/"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	tweets := r.Group("/api/tweets")
	{
		tweets.GET("", h.ListTweets)
		tweets.POST("", h.CreateTweet)
		tweets.PUT("", h.ToggleLike)
		tweets.GET("/:id/render", h.RenderTweet)
	}
	return r, nil
}
