package webserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/talkincode/salesdash/config"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const apiPrefix = "/api"

// AdminServer the http api server. Handlers are registered through the
// ApiXXX helpers and live under /api.
type AdminServer struct {
	root   *echo.Echo
	api    *echo.Group
	config *config.AppConfig
}

func NewAdminServer(cfg *config.AppConfig) *AdminServer {
	s := &AdminServer{config: cfg}
	s.root = echo.New()
	s.root.HideBanner = true
	s.root.HidePort = true
	s.root.Debug = cfg.System.Debug
	s.root.Logger.SetLevel(log.OFF)
	s.root.JSONSerializer = new(JSONSerializer)
	s.root.Validator = NewValidator()
	s.root.HTTPErrorHandler = s.errorHandler

	s.root.Pre(middleware.RemoveTrailingSlash())
	s.root.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll:   true,
		DisablePrintStack: !cfg.System.Debug,
	}))
	s.root.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: NextRequestID,
	}))
	s.root.Use(ZapLogger())
	s.root.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowOrigins(cfg.Web.AllowOrigins),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	if cfg.Web.BodyLimit != "" {
		s.root.Use(middleware.BodyLimit(cfg.Web.BodyLimit))
	}
	if cfg.Web.RateLimit > 0 {
		s.root.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:  rate.Limit(cfg.Web.RateLimit),
				Burst: rateBurst(cfg.Web.RateLimit),
			}),
			DenyHandler: func(c echo.Context, identifier string, err error) error {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
			},
		}))
	}
	if cfg.Web.Metrics {
		useMetrics(s.root)
	}

	s.root.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	s.api = s.root.Group(apiPrefix)
	return s
}

func allowOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// rateBurst lets a client spend one second worth of requests at once
func rateBurst(perSecond float64) int {
	if perSecond < 1 {
		return 1
	}
	return int(perSecond)
}

// Echo exposes the router, mostly for tests driving it through httptest
func (s *AdminServer) Echo() *echo.Echo {
	return s.root
}

func (s *AdminServer) ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.api.GET(path, h, m...)
}

func (s *AdminServer) ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.api.POST(path, h, m...)
}

func (s *AdminServer) ApiPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.api.PUT(path, h, m...)
}

func (s *AdminServer) ApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.api.DELETE(path, h, m...)
}

// Start listens on the configured address and blocks until the server stops.
// http.ErrServerClosed after Shutdown is not an error.
func (s *AdminServer) Start() error {
	addr := s.config.WebAddr()
	zap.S().Infof("Start admin api server %s", addr)
	err := s.root.Start(addr)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *AdminServer) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.root.Shutdown(ctx)
}

// errorHandler renders router-level errors (unknown route, wrong method,
// oversized body, panics) in the same shape as handler failures.
func (s *AdminServer) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	msg := http.StatusText(status)
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(status)
		}
	} else {
		zap.S().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	body := map[string]interface{}{
		"error": msg,
		"code":  strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_")),
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		zap.S().Error(err)
	}
}
