package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ════════════════════════════════════════════════════════════
// Configuration Maps
// ════════════════════════════════════════════════════════════

// routeToAction names the tab actions worth recording
var routeToAction = map[string]string{
	"GET /api/v1/store/products":          "selected_view",
	"POST /api/v1/store/products/more":    "revealed_more",
	"POST /api/v1/store/products/sort":    "sorted_view",
	"GET /api/v1/store/session/restore":   "restored_session",
	"POST /api/v1/store/session/navigate": "opened_product",
	"POST /api/v1/store/session/events":   "dispatched_event",
	"DELETE /api/v1/store/session":        "reset_session",
}

// ════════════════════════════════════════════════════════════
// Activity Logging Middleware
// ════════════════════════════════════════════════════════════

// ActivityLogging logs every request with its tab and latency. Tab actions
// from routeToAction are logged at info level, everything else at debug.
// The tab is read after the chain has run, so TabIdentity may sit on a
// nested group.
func ActivityLogging(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		action := routeToAction[c.Request.Method+" "+c.FullPath()]
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if tab := c.GetString(TabKey); tab != "" {
			fields = append(fields, zap.String("tab", tab))
		}
		if action != "" {
			fields = append(fields, zap.String("action", action))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		level := zapcore.DebugLevel
		switch {
		case status >= http.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case status >= http.StatusBadRequest:
			level = zapcore.WarnLevel
		case action != "":
			level = zapcore.InfoLevel
		}
		if ce := log.Check(level, "request"); ce != nil {
			ce.Write(fields...)
		}
	}
}
