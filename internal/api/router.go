package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/strivezine/blog-system/internal/api/handler"
	"github.com/strivezine/blog-system/internal/api/middleware"
	"github.com/strivezine/blog-system/internal/core/domain"
	"github.com/strivezine/blog-system/internal/core/ports"
)

// Deps are the use cases and settings the HTTP layer is built from.
type Deps struct {
	Auth        ports.AuthService
	OAuth       ports.OAuthService
	Authors     ports.AuthorService
	BlogPosts   ports.BlogPostService
	Health      *handler.HealthHandler
	FrontendURL string
	Logger      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddleware("blog"))

	requireAuth := middleware.Auth(d.Auth)
	requireAdmin := middleware.RequireRole(domain.RoleAdmin)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	oauthHandler := handler.NewOAuthHandler(d.OAuth, d.FrontendURL, d.Logger)
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.GET("/login/google", oauthHandler.Login)
	e.GET("/login/google/link", oauthHandler.Link, requireAuth)
	e.GET("/login/google/callback", oauthHandler.Callback)

	// --- Authors ---
	authorHandler := handler.NewAuthorHandler(d.Authors)
	authors := e.Group("/authors")
	authors.GET("", authorHandler.List)
	authors.GET("/me", authorHandler.Me, requireAuth)
	authors.PUT("/me", authorHandler.UpdateMe, requireAuth)
	authors.GET("/:id", authorHandler.Get, requireAuth, requireAdmin)
	authors.PUT("/:id", authorHandler.Update, requireAuth, requireAdmin)
	authors.DELETE("/:id", authorHandler.Delete, requireAuth, requireAdmin)

	// --- Blog posts and comments ---
	postHandler := handler.NewBlogPostHandler(d.BlogPosts)
	posts := e.Group("/blogPosts")
	posts.GET("", postHandler.List)
	posts.POST("", postHandler.Create, requireAuth)
	posts.GET("/:id", postHandler.Get)
	posts.PUT("/:id", postHandler.Update, requireAuth)
	posts.DELETE("/:id", postHandler.Delete, requireAuth)
	posts.GET("/:id/comments", postHandler.ListComments)
	posts.POST("/:id/comments", postHandler.AddComment, requireAuth)
	posts.GET("/:id/comments/:commentId", postHandler.GetComment)
	posts.PUT("/:id/comments/:commentId", postHandler.UpdateComment, requireAuth)
	posts.DELETE("/:id/comments/:commentId", postHandler.DeleteComment, requireAuth)

	// --- Health probes (no auth required) ---
	if d.Health != nil {
		e.GET("/health", d.Health.Liveness)        // liveness
		e.GET("/health/ready", d.Health.Readiness) // readiness
	}

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one structured access log line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
