// Package api exposes the service over HTTP.
package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/httpresponse"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/logger"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/metrics"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/service"
)

// AppOptions configures NewApp.
type AppOptions struct {
	Service     *service.Service
	Logger      logger.Logger
	CORSOrigins []string
}

// NewApp builds the fiber app with middleware and every route registered.
func NewApp(opts AppOptions) *fiber.App {
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	origins := strings.Join(opts.CORSOrigins, ",")
	if origins == "" {
		origins = "http://localhost:3000"
	}

	app := fiber.New(fiber.Config{
		AppName:               "houston-nonprofit-rag",
		ErrorHandler:          httpresponse.ErrorHandler,
		DisableStartupMessage: true,
		UnescapePath:          true,
	})
	app.Use(requestLogger(opts.Logger))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return httpresponse.ApplySuccessToResponse(c, fiber.Map{"status": "healthy"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	router := app.Group("/api")
	(&NonprofitAPI{Router: router, Service: opts.Service}).Register()
	(&StatsAPI{Router: router, Service: opts.Service}).Register()
	(&ChatAPI{Router: router, Service: opts.Service}).Register()
	(&SearchAPI{Router: router, Service: opts.Service}).Register()
	(&SystemAPI{Router: router, Service: opts.Service}).Register()

	return app
}

// requestLogger logs each request and records its count and latency.
func requestLogger(log logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		elapsed := time.Since(start)
		route := c.Route().Path
		status := c.Response().StatusCode()
		metrics.HTTPRequests.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(route, c.Method()).Observe(elapsed.Seconds())

		fields := map[string]interface{}{
			"method":      c.Method(),
			"path":        c.Path(),
			"status":      status,
			"duration_ms": elapsed.Milliseconds(),
		}
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed", fields)
		} else {
			log.Info("request", fields)
		}
		return nil
	}
}
