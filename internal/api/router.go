package api

import (
	"path/filepath"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/vigilcam/portal/docs"
	"github.com/vigilcam/portal/internal/api/cookie"
	"github.com/vigilcam/portal/internal/api/handler"
	"github.com/vigilcam/portal/internal/api/middleware"
	"github.com/vigilcam/portal/internal/core/ports"
	"github.com/vigilcam/portal/internal/pkg/metrics"
)

// Dependencies is everything the HTTP boundary needs from the rest of the service.
type Dependencies struct {
	Auth     ports.AuthService
	Sessions ports.SessionManager
	Analyzer ports.Analyzer
	Cookies  *cookie.Manager
	Metrics  *metrics.Metrics
	// Registry, when set, receives HTTP metrics and is served on /metrics.
	Registry *prometheus.Registry
	// Pingers are checked by /health/ready, keyed by dependency name.
	Pingers        map[string]handler.Pinger
	PublicDir      string
	RequestTimeout time.Duration
	Log            zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	if deps.RequestTimeout > 0 {
		e.Use(echomiddleware.ContextTimeout(deps.RequestTimeout))
	}
	if deps.Registry != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "http",
			Registerer: deps.Registry,
		}))
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Cookies)
	analysisHandler := handler.NewAnalysisHandler(deps.Analyzer, deps.Metrics, deps.Log)
	pageHandler := handler.NewPageHandler(deps.PublicDir)
	withSession := middleware.LoadSession(deps.Sessions, deps.Cookies, deps.Log)

	// --- Pages ---
	e.GET("/", pageHandler.Index)
	e.GET("/dashboard", pageHandler.Dashboard, withSession, middleware.RedirectAnonymous("/"))
	e.Static("/static", filepath.Join(deps.PublicDir, "static"))

	// --- Auth routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout)

	// --- Analysis ---
	e.POST("/analyze", analysisHandler.Analyze, withSession, middleware.RequireSession())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Pingers)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- API docs ---
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
