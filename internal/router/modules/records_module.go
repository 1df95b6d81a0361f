package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/stands-ims/internal/domain/entity"
	handlers "github.com/oksasatya/stands-ims/internal/interface/http"
)

// RecordsModule serves the temperature record listing and the add-record flow.
type RecordsModule struct {
	Handler *handlers.RecordHandler
	Guard   Guard
}

func NewRecordsModule(h *handlers.RecordHandler, g Guard) *RecordsModule {
	return &RecordsModule{Handler: h, Guard: g}
}

func (m *RecordsModule) Register(rg *gin.RouterGroup) {
	records := rg.Group("/records/temperature")
	records.Use(m.Guard.Auth, m.Guard.PerAccount(120))
	{
		records.GET("", m.Guard.Can(entity.PermViewTemperatureRecord), m.Handler.List)

		add := m.Guard.Can(entity.PermAddTemperatureRecord, entity.PermViewPerson)
		records.GET("/:username/add", add, m.Handler.AddForm)
		records.POST("/:username/add", add, m.Handler.Add)
	}
}
