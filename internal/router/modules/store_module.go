package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-storefront/internal/application"
	handlers "github.com/oksasatya/go-ddd-storefront/internal/interface/http"
	"github.com/oksasatya/go-ddd-storefront/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-storefront/pkg/helpers"
)

// StoreModule wires the screens of an open session: view, catalog, cart,
// purchases, profile and the contact form.
type StoreModule struct {
	Handler *handlers.StoreHandler
	Svc     *application.Storefront
	JWT     *helpers.JWTManager
	RDB     *redis.Client
}

func NewStoreModule(h *handlers.StoreHandler, svc *application.Storefront, jwt *helpers.JWTManager, rdb *redis.Client) *StoreModule {
	return &StoreModule{Handler: h, Svc: svc, JWT: jwt, RDB: rdb}
}

func (m *StoreModule) Name() string { return "storefront" }

func (m *StoreModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Svc, m.JWT))
	auth.Use(
		middleware.RateLimit(m.RDB, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyBySession(), nil),
	)
	{
		auth.GET("/view", m.Handler.GetView)
		auth.POST("/view", m.Handler.Navigate)

		auth.GET("/catalog", m.Handler.Catalog)
		auth.GET("/catalog/:id", m.Handler.Product)

		auth.GET("/cart", m.Handler.GetCart)
		auth.POST("/cart", m.Handler.AddToCart)
		auth.DELETE("/cart/:index", m.Handler.RemoveFromCart)
		auth.POST("/cart/checkout", m.Handler.Checkout)
		auth.GET("/purchases", m.Handler.Purchases)

		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)

		contactLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyBySession(), nil)
		auth.POST("/contact", contactLimiter, m.Handler.Contact)
	}
}
