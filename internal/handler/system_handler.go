package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/timetable-api/internal/service"
	"github.com/noah-isme/timetable-api/pkg/response"
)

// SystemHandler serves health and runtime metric snapshots.
type SystemHandler struct {
	db      *sqlx.DB
	redis   *redis.Client
	metrics *service.MetricsService
}

// NewSystemHandler constructs a new SystemHandler.
func NewSystemHandler(db *sqlx.DB, redisClient *redis.Client, metrics *service.MetricsService) *SystemHandler {
	return &SystemHandler{db: db, redis: redisClient, metrics: metrics}
}

// Health godoc
// @Summary Health check with dependency status
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	status := gin.H{"status": "ok"}

	if h.db != nil {
		if err := h.db.PingContext(c.Request.Context()); err != nil {
			status["database"] = "down"
			status["status"] = "degraded"
		} else {
			status["database"] = "up"
		}
	}

	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			status["redis"] = "down"
		} else {
			status["redis"] = "up"
		}
	}

	code := http.StatusOK
	if status["status"] == "degraded" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

// Metrics godoc
// @Summary Runtime metrics snapshot
// @Tags System
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /system/metrics [get]
func (h *SystemHandler) Metrics(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}
