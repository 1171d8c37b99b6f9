package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/user-admin/docs"
	"github.com/99minutos/user-admin/internal/api/handler"
	"github.com/99minutos/user-admin/internal/api/middleware"
	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer needs.
type Dependencies struct {
	Table     ports.TableController
	Auth      ports.AuthService
	JWTSecret string
	Checks    map[string]handler.Check
	Log       zerolog.Logger
	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "user_admin",
		Registerer: deps.Registerer,
	}))

	authHandler := handler.NewAuthHandler(deps.Auth)
	tableHandler := handler.NewTableHandler(deps.Table)
	healthHandler := handler.NewHealthHandler(deps.Checks)

	// --- Public routes ---
	e.POST("/auth/login", authHandler.Login)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Operator routes ---
	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret))
	read := middleware.RBAC(domain.OperatorRoleAdmin, domain.OperatorRoleViewer)
	write := middleware.RBAC(domain.OperatorRoleAdmin)

	v1.GET("/table", tableHandler.View, read)
	v1.POST("/table/load", tableHandler.Load, read)
	v1.GET("/table/rows/:id", tableHandler.RowState, read)
	v1.DELETE("/table/notice", tableHandler.DismissNotice, read)

	v1.POST("/table/rows/:id/edit", tableHandler.BeginEdit, write)
	v1.DELETE("/table/rows/:id", tableHandler.Delete, write)
	v1.PATCH("/table/draft", tableHandler.SetField, write)
	v1.POST("/table/draft/save", tableHandler.Save, write)
	v1.POST("/table/draft/cancel", tableHandler.Cancel, write)
	v1.POST("/users", tableHandler.Register, write)

	return e
}

// requestLogger writes one zerolog line per request.
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
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("operator", operatorName(c)).
				Msg("request")
			return nil
		},
	})
}

func operatorName(c echo.Context) string {
	name, _ := c.Get("username").(string)
	return name
}
