package monitor

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/d60-Lab/tweetfeed/config"
)

// InitSentry 配置了 DSN 时初始化 Sentry，返回是否启用以及 flush 函数
func InitSentry(cfg config.SentryConfig) (bool, func(), error) {
	if cfg.DSN == "" {
		return false, func() {}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		AttachStacktrace: true,
	})
	if err != nil {
		return false, func() {}, err
	}
	return true, func() { sentry.Flush(2 * time.Second) }, nil
}
