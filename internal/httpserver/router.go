package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authmw "github.com/Skotchmaster/summaries/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/summaries/internal/middleware/logging"
	"github.com/Skotchmaster/summaries/internal/models"
	"github.com/Skotchmaster/summaries/internal/tokens"
	"github.com/Skotchmaster/summaries/internal/validate"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	UserHandler    *UserHTTP
	SummaryHandler *SummaryHTTP
	CommentHandler *CommentHTTP
	RoleHandler    *RoleHTTP
	HealthHandler  *HealthHTTP
}

// New returns an echo instance with the shared middleware stack and error
// rendering installed.
func New(logger *slog.Logger, corsOrigins []string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validate.New()
	e.HTTPErrorHandler = ErrorHandler

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: corsOrigins}))
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", d.HealthHandler.Live)
	e.GET("/health/ready", d.HealthHandler.Ready)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	svc := d.AuthHandler.Svc
	access := authmw.Bearer(svc.Authenticate, tokens.Access)
	// logout accepts an already revoked token so repeating it succeeds
	logoutGuard := authmw.Bearer(svc.Verify, tokens.Access)
	refresh := authmw.Bearer(svc.Authenticate, tokens.Refresh)
	admin := authmw.RequireRole(models.RoleAdmin)

	auth := e.Group("/auth")
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh, refresh)
	auth.DELETE("/logout", d.AuthHandler.Logout, logoutGuard)

	e.POST("/users", d.UserHandler.Create)
	users := e.Group("/users")
	users.GET("/me", d.UserHandler.Me, access)
	users.GET("", d.UserHandler.List, access)
	users.GET("/:id", d.UserHandler.Get, access)
	users.GET("/:id/summaries", d.UserHandler.Summaries, access)
	users.PATCH("/:id", d.UserHandler.Patch, access)
	users.DELETE("/:id", d.UserHandler.Delete, access)

	summaries := e.Group("/summaries")
	summaries.GET("", d.SummaryHandler.List, access)
	summaries.GET("/search", d.SummaryHandler.Search, access)
	summaries.GET("/:id", d.SummaryHandler.Get, access)
	summaries.POST("", d.SummaryHandler.Create, access)
	summaries.PATCH("/:id", d.SummaryHandler.Patch, access)
	summaries.DELETE("/:id", d.SummaryHandler.Delete, access)

	comments := e.Group("/comments")
	comments.GET("", d.CommentHandler.List, access)
	comments.GET("/:id", d.CommentHandler.Get, access)
	comments.POST("", d.CommentHandler.Create, access)
	comments.PATCH("/:id", d.CommentHandler.Patch, access)
	comments.DELETE("/:id", d.CommentHandler.Delete, access)

	roles := e.Group("/roles")
	roles.GET("", d.RoleHandler.List, access)
	roles.GET("/:id", d.RoleHandler.Get, access)
	roles.POST("", d.RoleHandler.Create, access, admin)
	roles.PATCH("/:id", d.RoleHandler.Patch, access, admin)
	roles.DELETE("/:id", d.RoleHandler.Delete, access, admin)
}
