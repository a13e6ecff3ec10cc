package handlers

import (
	"net/http"
	"time"

	"Disastrous/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// HealthCheck 健康检查接口
func (h *Handlers) HealthCheck(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database connection failed"})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database ping failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"version":       "1.0.0",
		"ai_configured": h.assistant != nil,
		"sse_clients":   h.hub.ClientCount(),
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}

// SystemHealth 带主机指标的详细视图（admin）
func (h *Handlers) SystemHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"system": metrics.CollectSystemStats(),
	})
}
