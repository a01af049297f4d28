package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-storefront/internal/application"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/apperr"
	"github.com/oksasatya/go-ddd-storefront/pkg/helpers"
	"github.com/oksasatya/go-ddd-storefront/pkg/response"
)

const (
	CtxSessionKey = "session"
	CtxUserIDKey  = "userID"
)

// Auth validates the access token and resolves the storefront session it
// was issued for. It sets session, userID and sid in the Gin context.
func Auth(sf *application.Storefront, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", err.Error())
			c.Abort()
			return
		}

		sess, err := sf.Current(c.Request.Context(), claims.SessionID)
		if err != nil {
			status := http.StatusUnauthorized
			msg := "session not found"
			if errors.Is(err, apperr.ErrPersistence) {
				status, msg = http.StatusBadGateway, apperr.Message(err)
			}
			response.Error[any](c, status, msg, nil)
			c.Abort()
			return
		}
		if sess.UserID() != claims.UserID {
			response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			c.Abort()
			return
		}

		c.Set(CtxSessionKey, sess)
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set("sid", claims.SessionID)
		c.Next()
	}
}

// accessToken reads the cookie first, then a bearer header for non-browser
// clients.
func accessToken(c *gin.Context) string {
	if t, err := c.Cookie(helpers.AccessCookie); err == nil && t != "" {
		return t
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// SessionFrom returns the session resolved by Auth.
func SessionFrom(c *gin.Context) (*application.Session, bool) {
	v, ok := c.Get(CtxSessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*application.Session)
	return s, ok
}
