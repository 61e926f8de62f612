package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pricewise/pricewise-api/internal/middleware"
)

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health    *HealthHandler
	Profile   *ProfileHandler
	Product   *ProductHandler
	Deal      *DealHandler
	Favourite *FavouriteHandler
	Alert     *AlertHandler
	History   *HistoryHandler
	SSE       *SSEHandler
	WS        *WSHandler
}

// SetupRoutes registers all routes.
func SetupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	v1 := router.Group("/v1")

	v1.GET("/health", handlers.Health.GetHealth)
	v1.POST("/profiles", handlers.Profile.Create)

	// Catalog routes; a token, when present, records views in history
	v1.GET("/products", handlers.Product.GetProducts)
	v1.GET("/products/:id", jwtMiddleware.Optional(), handlers.Product.GetProduct)
	v1.GET("/deals/:id", handlers.Deal.GetDeal)
	v1.POST("/deals/evaluate", handlers.Deal.Evaluate)

	me := v1.Group("/me")
	me.Use(jwtMiddleware.Handle())
	{
		me.GET("", handlers.Profile.Me)

		me.GET("/favourites", handlers.Favourite.List)
		me.POST("/favourites/:id/toggle", handlers.Favourite.Toggle)

		me.GET("/alerts", handlers.Alert.List)
		me.POST("/alerts", handlers.Alert.Create)
		me.PUT("/alerts/:productId", handlers.Alert.Update)
		me.DELETE("/alerts/:productId", handlers.Alert.Delete)

		me.GET("/history", handlers.History.List)
		me.POST("/history", handlers.History.Add)
		me.DELETE("/history", handlers.History.Clear)

		me.GET("/events", handlers.SSE.Stream)
		me.GET("/ws", handlers.WS.Stream)
	}
}
