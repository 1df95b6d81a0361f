package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/stands-ims/internal/application"
	"github.com/oksasatya/stands-ims/internal/interface/middleware"
	"github.com/oksasatya/stands-ims/pkg/response"
)

type RecordHandler struct {
	Records    *application.RecordService
	Listing    *application.ListingService
	SuccessURL string
	Logger     logrus.FieldLogger
}

func NewRecordHandler(records *application.RecordService, listing *application.ListingService, successURL string, logger logrus.FieldLogger) *RecordHandler {
	return &RecordHandler{Records: records, Listing: listing, SuccessURL: successURL, Logger: logger}
}

type addRecordRequest struct {
	BodyTemperature *float64 `json:"body_temperature" form:"body_temperature" binding:"required"`
}

// List GET /api/records/temperature?q=&page=
func (h *RecordHandler) List(c *gin.Context) {
	l, err := h.Listing.TemperatureRecords(c.Request.Context(), application.ListQuery{Q: c.Query("q"), Page: c.Query("page")})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, l, "temperature records", nil)
}

// AddForm GET /api/records/temperature/:username/add
func (h *RecordHandler) AddForm(c *gin.Context) {
	p, err := h.Records.PersonForForm(c.Request.Context(), c.Param("username"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"person": gin.H{"id": p.ID, "username": p.Username, "full_name": p.FullName},
		"fields": application.RecordFormFields,
		"bounds": gin.H{"min": h.Records.Bounds.Min, "max": h.Records.Bounds.Max},
	}, "add temperature record", nil)
}

// Add POST /api/records/temperature/:username/add
// Redirects to the success location once the record is stored.
func (h *RecordHandler) Add(c *gin.Context) {
	username := c.Param("username")
	if _, err := h.Records.PersonForForm(c.Request.Context(), username); err != nil {
		fail(c, h.Logger, err)
		return
	}

	var req addRecordRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	if _, err := h.Records.Create(c.Request.Context(), c.GetString(middleware.CtxAccountID), username, *req.BodyTemperature); err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.Redirect(http.StatusSeeOther, h.SuccessURL)
}
