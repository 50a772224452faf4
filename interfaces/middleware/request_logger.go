package middleware

import (
	"net/http"
	"time"

	"crowdfund-service/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags every request with an id and logs its outcome.
func RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		requestID := ctx.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx.Set("request_id", requestID)
		ctx.Header(RequestIDHeader, requestID)

		ctx.Next()

		statusCode := ctx.Writer.Status()
		entry := logger.GetLogger().WithFields(map[string]interface{}{
			"request_id":  requestID,
			"http_method": ctx.Request.Method,
			"uri":         ctx.Request.URL.RequestURI(),
			"status_code": statusCode,
			"latency_ms":  time.Since(start).Milliseconds(),
			"client_ip":   ctx.ClientIP(),
		})
		switch {
		case len(ctx.Errors) > 0:
			entry.WithField("error", ctx.Errors.String()).Error("Request processing failed")
		case statusCode >= 500:
			entry.Error("Request completed with server error")
		case statusCode >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// BodyLimit caps request bodies at maxBytes.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxBytes)
		ctx.Next()
	}
}
