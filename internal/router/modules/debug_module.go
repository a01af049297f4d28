package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-storefront/internal/application"
	"github.com/oksasatya/go-ddd-storefront/internal/interface/middleware"
)

type DebugModule struct {
	RDB *redis.Client
}

func NewDebugModule(svc *application.Storefront, rdb *redis.Client) *DebugModule {
	if expvar.Get("storefront_active_sessions") == nil {
		expvar.Publish("storefront_active_sessions", expvar.Func(func() any { return svc.ActiveSessions() }))
	}
	return &DebugModule{RDB: rdb}
}

func (m *DebugModule) Name() string { return "debug" }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// metrics endpoint (expvar), rate-limited per IP except for private scrapers
	rl := middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
