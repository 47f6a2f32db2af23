// Package web serves the prediction form and a small JSON API over fiber.
package web

import (
	"context"
	"embed"
	"html/template"
	"time"

	"github.com/chrisdamba/vendorcast/internal/models"
	"github.com/chrisdamba/vendorcast/internal/predictor"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Predictor is what the handlers need from the forecasting core.
type Predictor interface {
	VendorIDs() []string
	Vendor(vendorID string) (models.VendorProfile, error)
	Predict(ctx context.Context, profile models.VendorProfile, day models.DayContext) (*models.PredictionOutput, error)
}

type Server struct {
	app      *fiber.App
	pred     Predictor
	prompts  predictor.PromptTemplates
	defaults models.DayDefaults
	logger   *zap.Logger
	now      func() time.Time
}

type Option func(*Server)

func WithDefaults(d models.DayDefaults) Option {
	return func(s *Server) { s.defaults = d }
}

func WithPrompts(p predictor.PromptTemplates) Option {
	return func(s *Server) { s.prompts = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func NewServer(pred Predictor, cfg models.ServerConfig, opts ...Option) *Server {
	s := &Server{
		pred:     pred,
		prompts:  predictor.DefaultPromptTemplates(),
		defaults: models.DayDefaults{Temperature: models.DefaultTemperature, Weather: models.WeatherSunny},
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "vendorcast",
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		DisableStartupMessage: true,
	})
	s.app.Use(recover.New())
	s.app.Use(s.requestLogger)
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.app.Get("/", s.handleIndex)
	s.app.Post("/", s.handleFormPredict)
	s.app.Get("/guidance", s.handleGuidance)
	s.app.Get("/healthz", s.handleHealth)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api", cors.New())
	api.Get("/vendors", s.handleListVendors)
	api.Post("/predict", s.handleAPIPredict)
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen(addr string) error {
	s.logger.Info("web server listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("latency", time.Since(start)),
	)
	return err
}
