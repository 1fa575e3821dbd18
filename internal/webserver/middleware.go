package webserver

import (
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var (
	idNode     *snowflake.Node
	idNodeOnce sync.Once
)

// NextRequestID returns a time-ordered unique id for X-Request-ID
func NextRequestID() string {
	idNodeOnce.Do(func() {
		node, err := snowflake.NewNode(1)
		if err != nil {
			panic(err)
		}
		idNode = node
	})
	return idNode.Generate().String()
}

// ZapLogger writes one structured line per request
func ZapLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			res := c.Response()
			fields := []zap.Field{
				zap.String("id", res.Header().Get(echo.HeaderXRequestID)),
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.Int("status", res.Status),
				zap.Duration("latency", time.Since(start)),
				zap.Int64("bytes_out", res.Size),
			}
			switch {
			case res.Status >= 500:
				zap.L().Error("request", fields...)
			case res.Status >= 400:
				zap.L().Warn("request", fields...)
			default:
				zap.L().Debug("request", fields...)
			}
			return nil
		}
	}
}

var (
	metrics     *prometheus.Prometheus
	metricsOnce sync.Once
)

// useMetrics mounts the request metrics middleware and GET /metrics. The
// collectors are registered once per process and shared by every server.
func useMetrics(e *echo.Echo) {
	metricsOnce.Do(func() {
		metrics = prometheus.NewPrometheus("salesdash", nil)
	})
	metrics.Use(e)
}
