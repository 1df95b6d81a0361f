package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/stands-ims/internal/application"
	"github.com/oksasatya/stands-ims/internal/domain/entity"
	"github.com/oksasatya/stands-ims/internal/interface/middleware"
	"github.com/oksasatya/stands-ims/pkg/response"
)

type PersonHandler struct {
	People  *application.PersonService
	Listing *application.ListingService
	Logger  logrus.FieldLogger
}

func NewPersonHandler(people *application.PersonService, listing *application.ListingService, logger logrus.FieldLogger) *PersonHandler {
	return &PersonHandler{People: people, Listing: listing, Logger: logger}
}

type createPersonRequest struct {
	Username string `json:"username" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Gender   string `json:"gender" binding:"required"`
	DOB      string `json:"dob" binding:"required"` // YYYY-MM-DD
}

type personView struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	FullName    string    `json:"full_name"`
	Gender      string    `json:"gender"`
	DOB         string    `json:"dob"`
	Age         int       `json:"age"`
	AgeCategory string    `json:"age_category"`
	CreatedAt   time.Time `json:"created_at"`
}

func (h *PersonHandler) view(p *entity.Person) personView {
	now := h.Listing.AsOf()
	return personView{
		ID:          p.ID,
		Username:    p.Username,
		FullName:    p.FullName,
		Gender:      p.Gender,
		DOB:         p.DOB.Format(time.DateOnly),
		Age:         p.AgeAt(now),
		AgeCategory: p.AgeCategoryAt(now, h.Listing.Cfg.AdultAge),
		CreatedAt:   p.CreatedAt,
	}
}

// List GET /api/people?q=&page=
func (h *PersonHandler) List(c *gin.Context) {
	l, err := h.Listing.People(c.Request.Context(), application.ListQuery{Q: c.Query("q"), Page: c.Query("page")})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, l, "people", nil)
}

// Search GET /api/people/search?q=&size=
func (h *PersonHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.People.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}

// Get GET /api/people/:username
func (h *PersonHandler) Get(c *gin.Context) {
	p, err := h.People.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, h.view(p), "person", nil)
}

// Create POST /api/people
func (h *PersonHandler) Create(c *gin.Context) {
	var req createPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	dob, err := time.Parse(time.DateOnly, req.DOB)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", map[string]string{"dob": "must be a date in YYYY-MM-DD format"})
		return
	}
	p, err := h.People.Create(c.Request.Context(), c.GetString(middleware.CtxAccountID), entity.PersonInput{
		Username: req.Username,
		FullName: req.FullName,
		Gender:   req.Gender,
		DOB:      dob,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, h.view(p), "person created", nil)
}
