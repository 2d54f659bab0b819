package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/gymtracker/auth-gateway/internal/api/handler"
	"github.com/gymtracker/auth-gateway/internal/api/middleware"
	"github.com/gymtracker/auth-gateway/internal/core/domain"
	"github.com/gymtracker/auth-gateway/internal/core/ports"

	_ "github.com/gymtracker/auth-gateway/docs"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	AuthService ports.AuthService
	UserService ports.UserService
	Tokens      middleware.TokenVerifier
	Resolver    ports.PrincipalResolver
	Health      map[string]handler.Pinger
	Logger      zerolog.Logger

	// Registerer and Gatherer back the HTTP metrics; nil means the default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	httpMetrics, err := echoprometheus.MiddlewareConfig{
		Subsystem:  "gateway",
		Registerer: registerer,
	}.ToMiddleware()
	if err != nil {
		return nil, err
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: func() string { return ulid.Make().String() },
	}))
	e.Use(requestLogger(deps.Logger))
	e.Use(httpMetrics)
	e.Use(middleware.Identity(deps.Tokens, deps.Resolver, deps.Logger.With().Str("component", "identity").Logger()))

	authHandler := handler.NewAuthHandler(deps.AuthService)
	userHandler := handler.NewUserHandler(deps.UserService)
	healthHandler := handler.NewHealthHandler(deps.Health)

	// --- Public routes: operational probes, metrics scrape and API docs ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	apiGroup := e.Group("/api")
	apiGroup.POST("/register", authHandler.Register)
	apiGroup.POST("/login", authHandler.Login)

	// --- Authenticated routes ---
	apiGroup.GET("/me", userHandler.Me, middleware.RequireAuthenticated())

	admin := apiGroup.Group("/users", middleware.RequireRole(domain.RoleAdmin))
	admin.GET("", userHandler.List)
	admin.DELETE("/:id", userHandler.Delete)

	// Unknown paths are protected too: anonymous callers get 401, not 404.
	e.RouteNotFound("/*", func(echo.Context) error { return echo.ErrNotFound }, middleware.RequireAuthenticated())

	return e, nil
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			if p, ok := domain.PrincipalFromContext(c.Request().Context()); ok {
				evt = evt.Int64("user_id", p.ID)
			}
			evt.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
