package httpserver

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	// The storefront frontend is served from another origin.
	corsCfg := cors.DefaultConfig()
	if len(deps.AllowOrigin) == 1 && deps.AllowOrigin[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = deps.AllowOrigin
	}
	corsCfg.AllowCredentials = !corsCfg.AllowAllOrigins
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}

	views := router.Group("/", sessionMiddleware())
	{
		views.GET("/", h.checkoutView)
		views.GET("/success", h.successView)
		views.GET("/cancel", h.cancelView)
	}

	api := router.Group("/api/v1", sessionMiddleware())
	{
		api.GET("/catalog", h.listCatalog)

		api.GET("/cart", h.getCart)
		api.POST("/cart/items", h.addCartItem)
		api.PATCH("/cart/items/:itemID", h.setCartItemQuantity)
		api.DELETE("/cart/items/:itemID", h.removeCartItem)

		api.POST("/checkout/pay", h.submitPayment)
		api.POST("/checkout/retry", h.retryCheckout)

		api.POST("/push/permission", h.pushPermission)
		api.POST("/push/token", h.pushToken)

		api.GET("/geocode/reverse", h.reverseGeocode)
	}

	return router
}

type handlers struct {
	deps   Deps
	logger *log.Logger
}
