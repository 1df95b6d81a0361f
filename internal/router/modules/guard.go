package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/stands-ims/internal/interface/middleware"
)

// Guard is the middleware every module puts in front of its protected routes.
type Guard struct {
	Auth  gin.HandlerFunc
	Perms middleware.PermissionChecker
	RDB   *redis.Client // rate limit store; nil disables limiting
}

// Can requires the caller to hold every permission code.
func (g Guard) Can(codes ...string) gin.HandlerFunc {
	return middleware.RequirePermission(g.Perms, codes...)
}

func (g Guard) PerIP(limit int) gin.HandlerFunc {
	return middleware.RateLimit(g.RDB, limit, time.Minute, middleware.KeyByIP(), nil)
}

func (g Guard) PerIPAndPath(limit int) gin.HandlerFunc {
	return middleware.RateLimit(g.RDB, limit, time.Minute, middleware.KeyByIPAndPath(), nil)
}

func (g Guard) PerAccount(limit int) gin.HandlerFunc {
	return middleware.RateLimit(g.RDB, limit, time.Minute, middleware.KeyByAccountID(), nil)
}
