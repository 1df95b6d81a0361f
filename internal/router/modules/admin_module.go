package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/stands-ims/internal/interface/http"
	"github.com/oksasatya/stands-ims/internal/interface/middleware"
)

type AdminModule struct {
	Handler *handlers.AdminHandler
	Guard   Guard
}

func NewAdminModule(h *handlers.AdminHandler, g Guard) *AdminModule {
	return &AdminModule{Handler: h, Guard: g}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(m.Guard.Auth, middleware.RequireSuperuser())
	{
		admin.GET("/accounts", m.Handler.Accounts)
		admin.POST("/roles", m.Handler.CreateRole)
		admin.PUT("/accounts/:username/roles", m.Handler.AssignRole)
		admin.PUT("/accounts/:username/staff", m.Handler.SetStaff)
	}
}
