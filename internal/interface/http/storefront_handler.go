package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-storefront/internal/application"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/apperr"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/catalog"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/entity"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/view"
	"github.com/oksasatya/go-ddd-storefront/pkg/helpers"
	"github.com/oksasatya/go-ddd-storefront/pkg/response"
)

// StoreHandler serves the screens a signed-in or guest client moves through.
type StoreHandler struct {
	Svc     *application.Storefront
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewStoreHandler(svc *application.Storefront, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *StoreHandler {
	return &StoreHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

// GetView GET /api/view
func (h *StoreHandler) GetView(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, toViewResponse(sess.State()), "view", nil)
}

type navigateRequest struct {
	Screen    string `json:"screen" binding:"required"`
	ProductID int    `json:"product_id" binding:"omitempty,gte=1"`
}

// Navigate POST /api/view. Moving to the login screen is the logout gesture.
func (h *StoreHandler) Navigate(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	to, known := view.ParseScreen(req.Screen)
	if !known {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"screen": "unknown screen"})
		return
	}

	switch {
	case to == view.Login:
		h.Svc.Logout(c.Request.Context(), sess.ID)
		h.Cookies.Clear(c)
		response.Success(c, http.StatusOK, viewResponse{Screen: string(view.Login)}, "logged out", nil)
		return
	case to == view.ProductDetail && req.ProductID != 0:
		if _, err := sess.SelectProduct(req.ProductID); err != nil {
			fail(c, h.Logger, err)
			return
		}
	default:
		if err := sess.Navigate(to); err != nil {
			fail(c, h.Logger, err)
			return
		}
	}
	response.Success(c, http.StatusOK, toViewResponse(sess.State()), "view", nil)
}

// Catalog GET /api/catalog?category=&max_price=
// Shows the catalog screen with the filter applied. No query clears filters.
func (h *StoreHandler) Catalog(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var q filterDTO
	if err := c.ShouldBindQuery(&q); err != nil {
		invalid(c, err)
		return
	}
	products, err := sess.Browse(q.filter())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	_, ceiling := q.filter().Ceiling()
	response.Success(c, http.StatusOK, products, "catalog", map[string]any{
		"filter":      q,
		"ceiling_set": ceiling,
		"categories":  append([]string{catalog.AllCategories}, categoryNames()...),
		"count":       len(products),
	})
}

func categoryNames() []string {
	cats := entity.Categories()
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, string(c))
	}
	return out
}

// Product GET /api/catalog/:id opens the product detail screen.
func (h *StoreHandler) Product(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"id": "must be numeric"})
		return
	}
	p, err := sess.SelectProduct(id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "product", nil)
}

// GetCart GET /api/cart
func (h *StoreHandler) GetCart(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	items, total := sess.Cart()
	response.Success(c, http.StatusOK, cartResponse{Items: items, Total: total}, "cart", nil)
}

type cartResponse struct {
	Items []entity.Product `json:"items"`
	Total int              `json:"total"`
}

type addToCartRequest struct {
	ProductID int `json:"product_id" binding:"required,gte=1"`
}

// AddToCart POST /api/cart
func (h *StoreHandler) AddToCart(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	items, err := sess.AddToCart(c.Request.Context(), req.ProductID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cartResponse{Items: items, Total: entity.SumPrices(items)}, "added to cart", nil)
}

// RemoveFromCart DELETE /api/cart/:index
func (h *StoreHandler) RemoveFromCart(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"index": "must be numeric"})
		return
	}
	items, err := sess.RemoveFromCart(c.Request.Context(), idx)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cartResponse{Items: items, Total: entity.SumPrices(items)}, "cart updated", nil)
}

// Checkout POST /api/cart/checkout
func (h *StoreHandler) Checkout(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	p, err := sess.Checkout(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, p, "purchase completed", nil)
}

// Purchases GET /api/purchases
func (h *StoreHandler) Purchases(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	if err := sess.Navigate(view.Purchases); err != nil && !errors.Is(err, apperr.ErrInvalidTransition) {
		fail(c, h.Logger, err)
		return
	}
	list := sess.Purchases()
	response.Success(c, http.StatusOK, list, "purchases", map[string]any{"count": len(list)})
}
