package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/osmand-tracker/tracker/docs"
	"github.com/osmand-tracker/tracker/internal/api/handler"
	"github.com/osmand-tracker/tracker/internal/api/middleware"
	"github.com/osmand-tracker/tracker/internal/core/ports"
	"github.com/osmand-tracker/tracker/internal/infrastructure/http/handlers"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Identities ports.IdentityService
	Points     ports.PointService
	Trips      ports.TripService
	// Checks back the readiness probe, keyed by dependency name.
	Checks map[string]handlers.Check

	JWTSecret          string
	RateLimitPerSecond float64
	RateLimitBurst     int
	Logger             zerolog.Logger
	// Registry receives the HTTP collectors and backs /metrics. Nil means
	// the default Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	// X-Forwarded-For is honoured only from loopback and private proxies.
	e.IPExtractor = echo.ExtractIPFromXFFHeader()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "tracker",
		Registerer: registerer,
	}))
	// Resolves handler errors through HTTPErrorHandler, so metrics above see
	// the final status.
	e.Use(middleware.RequestLogger(deps.Logger))

	// --- Dependencies ---
	pointHandler := handler.NewPointHandler(deps.Points)
	tripHandler := handler.NewTripHandler(deps.Trips)
	identityHandler := handler.NewIdentityHandler(deps.Identities)

	// --- Device routes (OsmAnd online tracking) ---
	record := e.Group("/record")
	if deps.RateLimitPerSecond > 0 {
		record.Use(middleware.RateLimit(deps.RateLimitPerSecond, deps.RateLimitBurst))
	}
	record.GET("", pointHandler.Record)
	record.POST("", pointHandler.Record)

	// --- Viewer routes ---
	e.GET("/tracking", tripHandler.Tracking)
	e.GET("/show", identityHandler.Get)
	e.GET("/users/:id", identityHandler.Get)

	// --- Operator routes ---
	e.POST("/users", identityHandler.Register,
		middleware.Auth(deps.JWTSecret),
		middleware.RBAC(middleware.RoleAdmin),
	)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
