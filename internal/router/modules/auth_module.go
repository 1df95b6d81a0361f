package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/stands-ims/internal/interface/http"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	Guard   Guard
}

func NewAuthModule(h *handlers.AuthHandler, g Guard) *AuthModule {
	return &AuthModule{Handler: h, Guard: g}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	rg.POST("/auth/verify/confirm", m.Guard.PerIPAndPath(30), m.Handler.VerifyConfirm)
	rg.POST("/auth/reset/init", m.Guard.PerIPAndPath(5), m.Handler.ResetInit)
	rg.POST("/auth/reset/confirm", m.Guard.PerIPAndPath(30), m.Handler.ResetConfirm)

	auth := rg.Group("/")
	auth.Use(m.Guard.Auth, m.Guard.PerAccount(5))
	{
		auth.POST("/auth/verify/init", m.Handler.VerifyInit)
	}
}
