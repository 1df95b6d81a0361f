package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/stands-ims/internal/application"
	"github.com/oksasatya/stands-ims/pkg/helpers"
	"github.com/oksasatya/stands-ims/pkg/response"
)

// PermissionChecker is what RequirePermission asks.
type PermissionChecker interface {
	HasPermission(ctx context.Context, p application.Principal, code string) (bool, error)
}

// Auth validates the access token and ensures its session still exists in Redis.
// Unauthenticated callers get a 401 whose meta points at the login page.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager, loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			unauthorized(c, loginURL, "authentication required")
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			unauthorized(c, loginURL, "invalid access token")
			return
		}

		sess, ok, err := helpers.LoadSession(c.Request.Context(), rdb, claims.SessionID)
		if err != nil || !ok || sess.AccountID != claims.AccountID {
			unauthorized(c, loginURL, "session not found")
			return
		}

		c.Set(CtxAccountID, sess.AccountID)
		c.Set(CtxSessionID, sess.ID)
		c.Set(CtxUsername, sess.Username)
		c.Set(CtxEmail, sess.Email)
		c.Set(CtxIsStaff, sess.IsStaff)
		c.Set(CtxIsSuperuser, sess.IsSuperuser)
		c.Next()
	}
}

// RequirePermission lets the request through only when the caller holds every code.
func RequirePermission(perms PermissionChecker, codes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := PrincipalFrom(c)
		for _, code := range codes {
			ok, err := perms.HasPermission(c.Request.Context(), p, code)
			if err != nil {
				response.Abort(c, http.StatusInternalServerError, "permission check failed", nil, nil)
				return
			}
			if !ok {
				response.Abort(c, http.StatusForbidden, "forbidden", gin.H{"missing_permission": code}, nil)
				return
			}
		}
		c.Next()
	}
}

// RequireSuperuser rejects everyone but superusers. Staff status is not enough.
func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(CtxIsSuperuser) {
			response.Abort(c, http.StatusForbidden, "forbidden", nil, nil)
			return
		}
		c.Next()
	}
}

// accessToken reads the access cookie, then a bearer Authorization header.
func accessToken(c *gin.Context) string {
	if tok, err := c.Cookie(helpers.AccessCookie); err == nil && tok != "" {
		return tok
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func unauthorized(c *gin.Context, loginURL, msg string) {
	response.Abort(c, http.StatusUnauthorized, msg, nil, gin.H{"login_url": LoginRedirect(loginURL, c.Request.URL.RequestURI())})
}

// LoginRedirect builds loginURL?next=<path>.
func LoginRedirect(loginURL, next string) string {
	if loginURL == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(loginURL, "?") {
		sep = "&"
	}
	return loginURL + sep + "next=" + url.QueryEscape(next)
}
