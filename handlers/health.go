package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthHandler reports liveness of the store and cache.
type HealthHandler struct {
	Mongo *mongo.Client
	Redis *redis.Client
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"mongo": "ok", "redis": "ok", "time": time.Now().UTC()}

	if err := h.Mongo.Ping(ctx, nil); err != nil {
		checks["mongo"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if h.Redis != nil {
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	} else {
		checks["redis"] = "disabled"
	}

	c.JSON(status, checks)
}
