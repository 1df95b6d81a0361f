package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/stands-ims/internal/application"
	"github.com/oksasatya/stands-ims/pkg/response"
)

// AdminHandler exposes account and role management to superusers.
type AdminHandler struct {
	Perms   *application.PermissionService
	PerPage int
	Logger  logrus.FieldLogger
}

func NewAdminHandler(perms *application.PermissionService, perPage int, logger logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{Perms: perms, PerPage: perPage, Logger: logger}
}

// Accounts GET /api/admin/accounts?page=&per_page=
func (h *AdminHandler) Accounts(c *gin.Context) {
	perPage := h.PerPage
	if n, err := strconv.Atoi(c.Query("per_page")); err == nil && n > 0 && n <= 100 {
		perPage = n
	}
	page, err := h.Perms.ListAccounts(c.Request.Context(), c.Query("page"), perPage)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, page.Items, "accounts", gin.H{
		"page":      page.Number,
		"per_page":  page.PerPage,
		"count":     page.Count,
		"num_pages": page.NumPages,
		"has_next":  page.HasNext,
		"has_prev":  page.HasPrevious,
	})
}

// CreateRole POST /api/admin/roles {name, permissions}
func (h *AdminHandler) CreateRole(c *gin.Context) {
	var req struct {
		Name        string   `json:"name" binding:"required"`
		Permissions []string `json:"permissions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	role, err := h.Perms.CreateRole(c.Request.Context(), req.Name, req.Permissions)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": role.ID, "name": role.Name, "permissions": role.Permissions}, "role created", nil)
}

// AssignRole PUT /api/admin/accounts/:username/roles {role}
func (h *AdminHandler) AssignRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	if err := h.Perms.AssignRole(c.Request.Context(), c.Param("username"), req.Role); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"username": c.Param("username"), "role": req.Role}, "role assigned", nil)
}

// SetStaff PUT /api/admin/accounts/:username/staff {is_staff}
func (h *AdminHandler) SetStaff(c *gin.Context) {
	var req struct {
		IsStaff *bool `json:"is_staff" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	a, err := h.Perms.SetStaff(c.Request.Context(), c.Param("username"), *req.IsStaff)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"username": a.Username, "is_staff": a.IsStaff}, "staff status updated", nil)
}
