package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/bookshelf/internal/repository"
)

type HealthHandler struct {
	conns     repository.Connector
	startTime time.Time
	version   string
}

func NewHealthHandler(conns repository.Connector, startTime time.Time, version string) *HealthHandler {
	return &HealthHandler{
		conns:     conns,
		startTime: startTime,
		version:   version,
	}
}

func (h *HealthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
}

// Health is the liveness probe: it answers 200 while the process serves
// requests and only reports the database state.
func (h *HealthHandler) Health(c *gin.Context) {
	dbStatus := "up"
	if err := h.pingDB(c); err != nil {
		dbStatus = "down"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  h.uptimeSeconds(),
		"db": gin.H{
			"status": dbStatus,
		},
	})
}

// Ready fails with 503 until the database answers a ping.
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.pingDB(c); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"db": gin.H{
				"status": "down",
				"error":  err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"version": h.version,
		"uptime":  h.uptimeSeconds(),
		"db": gin.H{
			"status": "up",
		},
	})
}

func (h *HealthHandler) pingDB(c *gin.Context) error {
	conn := h.conns.Connect(c.Request.Context())
	defer conn.Close()

	return conn.Ping()
}

func (h *HealthHandler) uptimeSeconds() int64 {
	return int64(time.Since(h.startTime).Seconds())
}
