package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/stands-ims/internal/interface/http"
)

// AccountModule wires registration, login and profile routes.
// Public: POST /register, POST /login, POST /refresh
// Protected: POST /logout, GET|PUT /profile, POST /profile/avatar
type AccountModule struct {
	Handler *handlers.AccountHandler
	Guard   Guard
}

func NewAccountModule(h *handlers.AccountHandler, g Guard) *AccountModule {
	return &AccountModule{Handler: h, Guard: g}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	rg.POST("/register", m.Guard.PerIP(10), m.Handler.Register)
	rg.POST("/login", m.Guard.PerIP(10), m.Handler.Login)
	rg.POST("/refresh", m.Guard.PerIP(60), m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(m.Guard.Auth, m.Guard.PerIP(300), m.Guard.PerAccount(120))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.POST("/profile/avatar", m.Guard.PerAccount(10), m.Handler.UploadAvatar)
	}
}
