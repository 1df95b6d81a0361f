package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/stands-ims/internal/application"
	"github.com/oksasatya/stands-ims/internal/domain/entity"
	"github.com/oksasatya/stands-ims/pkg/helpers"
	"github.com/oksasatya/stands-ims/pkg/response"
)

var statusByErr = []struct {
	err    error
	status int
}{
	{application.ErrInvalidCredentials, http.StatusUnauthorized},
	{application.ErrAccountInactive, http.StatusForbidden},
	{application.ErrAccountNotFound, http.StatusNotFound},
	{application.ErrPersonNotFound, http.StatusNotFound},
	{application.ErrRoleNotFound, http.StatusNotFound},
	{application.ErrUsernameTaken, http.StatusConflict},
	{application.ErrEmailTaken, http.StatusConflict},
	{application.ErrRoleExists, http.StatusConflict},
	{application.ErrUnknownPermission, http.StatusBadRequest},
	{application.ErrInvalidToken, http.StatusBadRequest},
	{application.ErrStorageUnavailable, http.StatusServiceUnavailable},
}

// fail writes err with the status its kind maps to. Unknown errors are logged and
// reported as 500 without detail.
func fail(c *gin.Context, logger logrus.FieldLogger, err error) {
	var verr *entity.ValidationError
	if errors.As(err, &verr) {
		response.Invalid(c, err)
		return
	}
	for _, m := range statusByErr {
		if errors.Is(err, m.err) {
			response.Error[any](c, m.status, err.Error(), nil)
			return
		}
	}
	if logger != nil {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		})
	}
	response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
}
