package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/stands-ims/internal/application"
)

// Gin context keys set by Auth.
const (
	CtxAccountID   = "accountID"
	CtxSessionID   = "sessionID"
	CtxUsername    = "username"
	CtxEmail       = "email"
	CtxIsStaff     = "isStaff"
	CtxIsSuperuser = "isSuperuser"
)

// PrincipalFrom returns the caller Auth stored in the context.
func PrincipalFrom(c *gin.Context) application.Principal {
	return application.Principal{
		AccountID:   c.GetString(CtxAccountID),
		IsSuperuser: c.GetBool(CtxIsSuperuser),
	}
}
