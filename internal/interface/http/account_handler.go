package handlers

import (
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/stands-ims/internal/application"
	"github.com/oksasatya/stands-ims/internal/domain/entity"
	"github.com/oksasatya/stands-ims/internal/interface/middleware"
	"github.com/oksasatya/stands-ims/pkg/helpers"
	"github.com/oksasatya/stands-ims/pkg/response"
)

const maxAvatarBytes = 5 << 20

var avatarTypes = map[string]bool{"image/jpeg": true, "image/png": true, "image/webp": true, "image/gif": true}

type AccountHandler struct {
	Svc     *application.AccountService
	Logger  logrus.FieldLogger
	Cookies *helpers.CookieManager
}

func NewAccountHandler(svc *application.AccountService, logger logrus.FieldLogger, cookieDomain string, cookieSecure bool) *AccountHandler {
	return &AccountHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"` // username or email
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	FullName    string `json:"full_name"`
	DOB         string `json:"dob"` // YYYY-MM-DD
	Gender      string `json:"gender"`
}

type profileView struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	PhoneNumber string  `json:"phone_number"`
	AvatarURL   string  `json:"avatar_url,omitempty"`
	IsVerified  bool    `json:"is_verified"`
	FullName    string  `json:"full_name"`
	DOB         *string `json:"dob"`
	Gender      string  `json:"gender"`
}

func toProfileView(ap *application.AccountProfile) profileView {
	v := profileView{
		ID:          ap.Account.ID,
		Username:    ap.Account.Username,
		Email:       ap.Account.Email,
		FirstName:   ap.Account.FirstName,
		LastName:    ap.Account.LastName,
		PhoneNumber: ap.Account.PhoneNumber,
		AvatarURL:   ap.Account.AvatarURL,
		IsVerified:  ap.Account.IsVerified,
	}
	if ap.Profile != nil {
		v.FullName = ap.Profile.FullName
		v.Gender = ap.Profile.Gender
		if ap.Profile.DOB != nil {
			d := ap.Profile.DOB.Format(time.DateOnly)
			v.DOB = &d
		}
	}
	return v
}

// Register POST /api/register
func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	ap, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		AccountInput: entity.AccountInput{
			Username:    req.Username,
			Email:       req.Email,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			PhoneNumber: req.PhoneNumber,
		},
		Password: req.Password,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toProfileView(ap), "account created", nil)
}

// Login POST /api/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	res, pair, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, res, "login successful", map[string]any{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
		"next":               safeNext(c.Query("next")),
	})
}

// Refresh POST /api/refresh
func (h *AccountHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(helpers.RefreshCookie)
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		h.Cookies.Clear(c)
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

// Logout POST /api/logout
func (h *AccountHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), c.GetString(middleware.CtxSessionID)); err != nil {
		h.Logger.WithError(err).Warn("delete session failed")
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

// GetProfile GET /api/profile
func (h *AccountHandler) GetProfile(c *gin.Context) {
	ap, err := h.Svc.GetProfile(c.Request.Context(), c.GetString(middleware.CtxAccountID))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProfileView(ap), "profile", nil)
}

// UpdateProfile PUT /api/profile
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	dob, err := parseOptionalDate(req.DOB)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", map[string]string{"dob": "must be a date in YYYY-MM-DD format"})
		return
	}
	ap, err := h.Svc.UpdateProfile(c.Request.Context(), c.GetString(middleware.CtxAccountID), application.UpdateProfileInput{
		Account: entity.AccountUpdate{FirstName: req.FirstName, LastName: req.LastName, PhoneNumber: req.PhoneNumber},
		Profile: entity.ProfileInput{FullName: req.FullName, DOB: dob, Gender: req.Gender},
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProfileView(ap), "profile updated", nil)
}

// UploadAvatar POST /api/profile/avatar (multipart field "avatar")
func (h *AccountHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", map[string]string{"avatar": "is required"})
		return
	}
	if fh.Size > maxAvatarBytes {
		response.Error[any](c, http.StatusBadRequest, "validation failed", map[string]string{"avatar": "must be at most 5 MB"})
		return
	}
	ct := fh.Header.Get("Content-Type")
	if !avatarTypes[ct] {
		response.Error[any](c, http.StatusBadRequest, "validation failed", map[string]string{"avatar": "must be a JPEG, PNG, WebP or GIF image"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), c.GetString(middleware.CtxAccountID), f, path.Base(fh.Filename), ct)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar updated", nil)
}

// safeNext keeps only local paths so the login page cannot be used as an open redirect.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	return next
}

func parseOptionalDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
