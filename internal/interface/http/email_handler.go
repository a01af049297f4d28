package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-storefront/internal/domain/service"
	"github.com/oksasatya/go-ddd-storefront/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-storefront/pkg/response"
)

type contactRequest struct {
	Name    string `json:"name" binding:"required,max=120"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required,max=5000"`
}

// Contact POST /api/contact. The delivery status is returned both on
// success and on failure.
func (h *StoreHandler) Contact(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	status, err := sess.SubmitContact(c.Request.Context(), service.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,

		ClientIP:  middleware.ClientIP(c),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		if status == "" {
			fail(c, h.Logger, err)
			return
		}
		response.Error[any](c, http.StatusBadGateway, string(status), map[string]string{"status": string(status)})
		return
	}
	response.Success(c, http.StatusAccepted, map[string]string{"status": string(status)}, string(status), nil)
}
