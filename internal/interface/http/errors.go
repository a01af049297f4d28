package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-storefront/internal/application"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/apperr"
	"github.com/oksasatya/go-ddd-storefront/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-storefront/pkg/response"
	"github.com/oksasatya/go-ddd-storefront/pkg/validation"
)

// fail writes the envelope for a domain error. Causes behind gateway errors
// are logged, never returned.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	status := apperr.StatusCode(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	response.Error[any](c, status, apperr.Message(err), nil)
}

func invalid(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

// session returns the session resolved by middleware.Auth.
func session(c *gin.Context) (*application.Session, bool) {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, apperr.ErrNoSession.Error(), nil)
	}
	return s, ok
}
