package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/stands-ims/internal/interface/http"
	"github.com/oksasatya/stands-ims/internal/interface/middleware"
)

type EmailModule struct {
	Handler *handlers.EmailHandler
	Guard   Guard
}

func NewEmailModule(h *handlers.EmailHandler, g Guard) *EmailModule {
	return &EmailModule{Handler: h, Guard: g}
}

func (m *EmailModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(m.Guard.Auth, middleware.RequireSuperuser(), m.Guard.PerAccount(60))
	{
		auth.POST("/email/send", m.Handler.Send)
	}
}
