package routes

import (
	"time"

	"staybook/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all endpoints for the reservation engine.
func RegisterRoutes(r *gin.Engine, checkout *handlers.CheckoutHandler, health *handlers.HealthHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api/checkout")
	{
		api.POST("/create-order", checkout.CreateOrder)
		api.POST("/verify-payment", checkout.VerifyPayment)
	}

	r.GET("/healthz", health.Healthz)
}
