package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/stands-ims/internal/domain/entity"
	handlers "github.com/oksasatya/stands-ims/internal/interface/http"
)

type PeopleModule struct {
	Handler *handlers.PersonHandler
	Guard   Guard
}

func NewPeopleModule(h *handlers.PersonHandler, g Guard) *PeopleModule {
	return &PeopleModule{Handler: h, Guard: g}
}

func (m *PeopleModule) Register(rg *gin.RouterGroup) {
	people := rg.Group("/people")
	people.Use(m.Guard.Auth, m.Guard.PerAccount(120))
	{
		people.GET("", m.Guard.Can(entity.PermViewPerson), m.Handler.List)
		people.GET("/search", m.Guard.Can(entity.PermViewPerson), m.Handler.Search)
		people.GET("/:username", m.Guard.Can(entity.PermViewPerson), m.Handler.Get)
		people.POST("", m.Guard.Can(entity.PermAddPerson), m.Handler.Create)
	}
}
