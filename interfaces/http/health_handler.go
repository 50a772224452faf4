package http

import (
	"context"
	"net/http"
	"time"

	"crowdfund-service/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type IHealthHandler interface {
	Healthz(ctx *gin.Context)
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) IHealthHandler {
	return &HealthHandler{db: db}
}

// Healthz returns OK when the database answers a ping
func (h *HealthHandler) Healthz(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(pingCtx); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Health check failed")
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
