package api

import (
	"context"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/ThalesFiorin/HelpDeskDelta/docs"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/api/handler"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/api/middleware"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/ports"
)

// RouterDeps carries everything the HTTP layer needs.
type RouterDeps struct {
	Sessions   ports.Sessions
	Mailer     ports.Mailer
	Deliveries ports.DeliveryHistory // nil when the delivery log is off
	Checks     map[string]func(ctx context.Context) error
	JWTSecret  string
	Location   *time.Location
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddleware("helpdesk"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Sessions)
	viewHandler := handler.NewViewHandler(deps.Sessions, deps.Location)
	ticketHandler := handler.NewTicketHandler(deps.Sessions, deps.Deliveries)
	userHandler := handler.NewUserHandler(deps.Sessions)
	emailHandler := handler.NewEmailHandler(deps.Mailer, deps.Log)
	healthHandler := handler.NewHealthHandler(deps.Checks)

	authMiddleware := middleware.Auth(deps.JWTSecret)
	staffOnly := middleware.RBAC(domain.RoleAdmin, domain.RoleAgent)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Email relay (method is checked by the handler) ---
	e.Any("/api/send-email", emailHandler.Send)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, authMiddleware)
	auth.GET("/session", authHandler.Session)
	auth.POST("/recover", authHandler.Recover)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// --- Session-bound routes ---
	v1 := e.Group("/v1", authMiddleware)
	v1.GET("/state", viewHandler.State)
	v1.POST("/navigate", viewHandler.Navigate)
	v1.GET("/dashboard", viewHandler.Dashboard)
	v1.GET("/calendar", viewHandler.Calendar)

	v1.GET("/tickets", ticketHandler.List)
	v1.POST("/tickets", ticketHandler.Create)
	v1.DELETE("/tickets/selection", ticketHandler.Deselect)
	v1.GET("/tickets/:code", ticketHandler.Get)
	v1.POST("/tickets/:code/comments", ticketHandler.AddComment)
	v1.PATCH("/tickets/:code/status", ticketHandler.UpdateStatus, staffOnly)
	v1.PATCH("/tickets/:code/assignee", ticketHandler.Assign, staffOnly)
	v1.GET("/tickets/:code/deliveries", ticketHandler.Deliveries, staffOnly)

	v1.PUT("/profile", userHandler.UpdateProfile)
	users := v1.Group("/users", adminOnly)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
