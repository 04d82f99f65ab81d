package handlers

import (
	"net/http"

	"carvistors/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

type HealthHandler struct {
	Mongo *mongo.Client
	Redis *redis.Client
}

func NewHealthHandler(mongoClient *mongo.Client, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{Mongo: mongoClient, Redis: redisClient}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	status := utils.CheckHealth(c.Request.Context(), h.Redis, h.Mongo)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Car Vistors API is running", "dependencies": status})
}
