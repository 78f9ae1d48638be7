package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/coffeeshop/site-api/internal/api/handler"
	"github.com/coffeeshop/site-api/internal/api/middleware"
	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/ports"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Log zerolog.Logger

	Tokens   middleware.TokenVerifier
	Accounts middleware.AccountLoader

	Auth       ports.AuthService
	Users      ports.AccountService
	Roles      ports.RoleService
	Reputation ports.ReputationService
	News       ports.FeedService
	Posts      ports.FeedService
	Drinks     ports.DrinkService
	Schedule   ports.ScheduleService
	Uploads    ports.UploadService
	// Audit is nil when the audit trail is disabled.
	Audit ports.AuditReader

	Health map[string]handler.PingFunc
	// UploadDir is served at /uploads when images are stored locally.
	UploadDir string
	// BodyLimit caps request bodies, e.g. "6M".
	BodyLimit string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORS())
	if d.BodyLimit != "" {
		e.Use(echomiddleware.BodyLimit(d.BodyLimit))
	}
	e.Use(echoprometheus.NewMiddleware("coffeeshop"))

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewHealthDependenciesHandler(d.Health).Readiness)
	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}

	auth := middleware.Auth(d.Tokens, d.Accounts)
	optionalAuth := middleware.OptionalAuth(d.Tokens, d.Accounts)

	api := e.Group("/api")

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// --- Feeds ---
	registerFeed(api.Group("/news"), handler.NewNewsHandler(d.News), auth, optionalAuth, true)
	registerFeed(api.Group("/posts"), handler.NewPostsHandler(d.Posts), auth, optionalAuth, false)

	// --- Drinks ---
	drinks := handler.NewDrinkHandler(d.Drinks)
	dg := api.Group("/drinks")
	dg.GET("", drinks.List)
	dg.POST("", drinks.Create, auth)
	dg.POST("/upload", drinks.CreateWithUpload, auth)
	dg.GET("/:id", drinks.Get)
	dg.PATCH("/:id", drinks.Update, auth)
	dg.DELETE("/:id", drinks.Delete, auth)
	dg.GET("/:id/reviews", drinks.Reviews)
	dg.POST("/:id/reviews", drinks.AddReview, auth)
	dg.DELETE("/:id/reviews/:reviewId", drinks.DeleteReview, auth)

	// --- Users ---
	users := handler.NewUserHandler(d.Users, d.Reputation)
	ug := api.Group("/user")
	ug.GET("/profile", users.Profile, auth)
	ug.POST("/avatar", users.UploadAvatar, auth)
	ug.DELETE("/avatar", users.DeleteAvatar, auth)
	ug.GET("/:userId", users.Get)
	ug.GET("/:userId/reputation-status", users.ReputationStatus, auth)
	ug.POST("/:userId/reputation", users.Vote, auth)

	// --- Admin (creator only) ---
	admin := handler.NewAdminHandler(d.Users, d.Roles, d.Audit)
	ag := api.Group("/admin", auth, middleware.RequireRole(domain.RoleCreator))
	ag.GET("/users", admin.ListUsers)
	ag.PATCH("/users/:id/role", admin.UpdateRole)
	ag.PATCH("/users/:id/reputation", admin.UpdateReputation)
	ag.DELETE("/users/:id", admin.DeleteUser)
	ag.GET("/audit", admin.AuditLog)

	// --- Schedule ---
	schedule := handler.NewScheduleHandler(d.Schedule)
	sg := api.Group("/schedule")
	sg.GET("", schedule.Shifts)
	sg.GET("/employees", schedule.Employees, auth)
	sg.GET("/templates", schedule.Templates, auth)
	sg.POST("", schedule.Create, auth)
	sg.PATCH("/:id", schedule.Update, auth)
	sg.DELETE("/:id", schedule.Delete, auth)

	// --- Uploads ---
	api.POST("/uploads", handler.NewUploadHandler(d.Uploads).Upload, auth)

	return e
}

func registerFeed(g *echo.Group, h *handler.FeedHandler, auth, optionalAuth echo.MiddlewareFunc, uploadAliases bool) {
	g.GET("", h.List, optionalAuth)
	g.GET("/:id", h.Get, optionalAuth)
	g.POST("", h.Create, auth)
	if uploadAliases {
		g.POST("/upload", h.Create, auth)
		g.POST("/with-image", h.Create, auth)
	}
	g.PUT("/:id", h.Update, auth)
	g.DELETE("/:id", h.Delete, auth)
	g.POST("/:id/like", h.ToggleLike, auth)
	g.GET("/:id/comments", h.Comments)
	g.POST("/:id/comments", h.AddComment, auth)
	g.DELETE("/:id/comments/:commentId", h.DeleteComment, auth)
}

// requestLogger feeds echo's request log into zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Status >= 400:
				ev = log.Warn()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
