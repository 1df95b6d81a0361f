package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/stands-ims/config"
	"github.com/oksasatya/stands-ims/internal/application"
	"github.com/oksasatya/stands-ims/internal/domain/entity"
	repo "github.com/oksasatya/stands-ims/internal/domain/repository"
	"github.com/oksasatya/stands-ims/internal/interface/middleware"
	"github.com/oksasatya/stands-ims/pkg/helpers"
	"github.com/oksasatya/stands-ims/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type accounts map[string]entity.Account

func (m accounts) Create(_ context.Context, a *entity.Account) error {
	for _, x := range m {
		if x.Username == a.Username || x.Email == a.Email {
			return repo.ErrConflict
		}
	}
	m[a.ID] = *a
	return nil
}

func (m accounts) GetByID(_ context.Context, id string) (*entity.Account, error) {
	a, ok := m[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &a, nil
}

func (m accounts) first(match func(entity.Account) bool) (*entity.Account, error) {
	for _, a := range m {
		if match(a) {
			return &a, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m accounts) GetByUsername(_ context.Context, u string) (*entity.Account, error) {
	return m.first(func(a entity.Account) bool { return a.Username == u })
}

func (m accounts) GetByEmail(_ context.Context, e string) (*entity.Account, error) {
	return m.first(func(a entity.Account) bool { return strings.EqualFold(a.Email, e) })
}

func (m accounts) Update(_ context.Context, a *entity.Account) error {
	m[a.ID] = *a
	return nil
}

func (m accounts) UpdatePassword(_ context.Context, id, hash string) error {
	a := m[id]
	a.PasswordHash = hash
	m[id] = a
	return nil
}

func (m accounts) SetVerified(_ context.Context, id string) error {
	a := m[id]
	a.IsVerified = true
	m[id] = a
	return nil
}

func (m accounts) List(context.Context) ([]entity.Account, error) { return nil, nil }

type profiles map[string]entity.Profile

func (m profiles) Create(_ context.Context, p *entity.Profile) error {
	m[p.AccountID] = *p
	return nil
}

func (m profiles) GetByAccountID(_ context.Context, id string) (*entity.Profile, error) {
	p, ok := m[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &p, nil
}

func (m profiles) Update(_ context.Context, p *entity.Profile) error {
	m[p.AccountID] = *p
	return nil
}

type noTx struct{}

func (noTx) WithinTx(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }

func newAccountEngine(t *testing.T) (*gin.Engine, accounts, profiles) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	accs, profs := accounts{}, profiles{}
	jwt := helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour)
	cfg := &config.Config{TimeZone: "UTC", SessionTTL: time.Hour}
	svc := application.NewAccountService(accs, profs, noTx{}, jwt, rdb, nil, nil, cfg, logger)
	h := NewAccountHandler(svc, logger, "", false)

	r := gin.New()
	r.POST("/api/register", h.Register)
	r.POST("/api/login", h.Login)
	r.POST("/api/refresh", h.Refresh)
	auth := r.Group("/api", middleware.Auth(rdb, jwt, "/api/login"))
	auth.POST("/logout", h.Logout)
	auth.GET("/profile", h.GetProfile)
	auth.PUT("/profile", h.UpdateProfile)
	auth.POST("/profile/avatar", h.UploadAvatar)
	return r, accs, profs
}

func send(r *gin.Engine, method, target, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorFields(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var e struct {
		Error map[string]string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	return e.Error
}

const registerBody = `{"username":"alvinm","email":"alvin@example.com","phone_number":"+254 701 234 567","password":"s3cret-pass"}`

func TestAccountHandler_RegisterLoginProfileLogout(t *testing.T) {
	r, accs, profs := newAccountEngine(t)

	w := send(r, http.MethodPost, "/api/register", registerBody, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Len(t, accs, 1)
	assert.Len(t, profs, 1)

	w = send(r, http.MethodPost, "/api/register", registerBody, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = send(r, http.MethodPost, "/api/login", `{"username":"alvinm","password":"nope-nope"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = send(r, http.MethodPost, "/api/login?next=//evil.test", `{"username":"alvin@example.com","password":"s3cret-pass"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)

	w = send(r, http.MethodPut, "/api/profile", `{"full_name":"Alvin Mukuna","dob":"1990-05-01","gender":"M"}`, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got struct {
		Data struct {
			FullName string  `json:"full_name"`
			DOB      *string `json:"dob"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Alvin Mukuna", got.Data.FullName)
	require.NotNil(t, got.Data.DOB)
	assert.Equal(t, "1990-05-01", *got.Data.DOB)

	w = send(r, http.MethodPut, "/api/profile", `{"dob":"01/05/1990"}`, cookies)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorFields(t, w), "dob")

	w = send(r, http.MethodPost, "/api/logout", ``, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = send(r, http.MethodGet, "/api/profile", ``, cookies)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "session is gone after logout")
}

func TestAccountHandler_RegisterValidation(t *testing.T) {
	r, accs, _ := newAccountEngine(t)

	w := send(r, http.MethodPost, "/api/register", `{"username":"alvinm","email":"alvin@example.com","phone_number":"0701","password":"s3cret-pass"}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Enter a valid phone number", errorFields(t, w)["phone_number"])

	w = send(r, http.MethodPost, "/api/register", `{"username":"alvinm","email":"alvin@example.com","phone_number":"+254701234567","password":"short"}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorFields(t, w), "password")

	assert.Empty(t, accs)
}

func TestAccountHandler_Refresh(t *testing.T) {
	r, _, _ := newAccountEngine(t)
	require.Equal(t, http.StatusCreated, send(r, http.MethodPost, "/api/register", registerBody, nil).Code)

	w := send(r, http.MethodPost, "/api/refresh", ``, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = send(r, http.MethodPost, "/api/login", `{"username":"alvinm","password":"s3cret-pass"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	old := w.Result().Cookies()

	w = send(r, http.MethodPost, "/api/refresh", ``, old)
	require.Equal(t, http.StatusOK, w.Code)

	w = send(r, http.MethodGet, "/api/profile", ``, old)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "rotated session no longer authenticates")
}

func TestAccountHandler_AvatarWithoutStorage(t *testing.T) {
	r, _, _ := newAccountEngine(t)
	require.Equal(t, http.StatusCreated, send(r, http.MethodPost, "/api/register", registerBody, nil).Code)
	w := send(r, http.MethodPost, "/api/login", `{"username":"alvinm","password":"s3cret-pass"}`, nil)
	cookies := w.Result().Cookies()

	w = send(r, http.MethodPost, "/api/profile/avatar", ``, cookies)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorFields(t, w), "avatar")
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/api/people", safeNext("/api/people"))
	assert.Empty(t, safeNext("//evil.test"))
	assert.Empty(t, safeNext("https://evil.test"))
}
