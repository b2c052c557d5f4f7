package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/eventdesk/reservations/docs"
	"github.com/eventdesk/reservations/internal/api/handler"
	"github.com/eventdesk/reservations/internal/api/middleware"
	"github.com/eventdesk/reservations/internal/core/domain"
	"github.com/eventdesk/reservations/internal/core/ports"
	"github.com/eventdesk/reservations/internal/infrastructure/http/handlers"
)

// Dependencies are the wired services the router exposes.
type Dependencies struct {
	Log          zerolog.Logger
	Gate         middleware.Authorizer
	Auth         ports.AuthService
	Catalog      ports.CatalogService
	Reservations ports.ReservationService
	Health       *handlers.HealthHandler
	// Registry receives the HTTP request metrics. Nil uses the Prometheus
	// default registry.
	Registry *prometheus.Registry
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
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(metricsConfig(deps.Registry)))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	catalogHandler := handler.NewCatalogHandler(deps.Catalog)
	reservationHandler := handler.NewReservationHandler(deps.Reservations)

	attendeeOnly := middleware.Auth(deps.Gate, domain.RoleAttendee)
	hostOnly := middleware.Auth(deps.Gate, domain.RoleHost)

	// --- API routes ---
	e.POST("/api/auth/login", authHandler.Login)
	e.GET("/api/users/events", catalogHandler.ListEvents)
	e.POST("/api/users/reserve", reservationHandler.Toggle, attendeeOnly)
	e.POST("/api/companies/events", catalogHandler.ListHostEvents, hostOnly)

	// --- Operations ---
	if deps.Health != nil {
		e.GET("/health", deps.Health.Liveness)
		e.GET("/health/ready", deps.Health.Readiness)
	}
	e.GET("/metrics", metricsHandler(deps.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func metricsConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{
		Namespace: "reservations",
		Subsystem: "http",
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Info().
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
