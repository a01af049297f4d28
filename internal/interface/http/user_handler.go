package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-storefront/pkg/response"
)

// GetProfile GET /api/profile
func (h *StoreHandler) GetProfile(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	st := sess.State()
	response.Success(c, http.StatusOK, toProfileResponse(st.Identifier, st.Guest, st.Profile), "profile", nil)
}

// UpdateProfile PUT /api/profile. Saves the contact fields and returns to
// the catalog.
func (h *StoreHandler) UpdateProfile(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var req contactDetailsDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	p, err := sess.SaveProfile(c.Request.Context(), req.details())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	st := sess.State()
	response.Success(c, http.StatusOK, toProfileResponse(st.Identifier, st.Guest, p), "profile updated", map[string]any{"screen": st.Screen})
}
