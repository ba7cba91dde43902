// Package server contains the HTTP handlers for the blogging API.
package server

import (
	"context"
	"log/slog"
	"time"

	_ "inkwell/docs" // swagger docs
	"inkwell/internal/auth"
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	cache          *cache.Aside
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	authService      *service.AuthService
	postService      *service.PostService
	commentService   *service.CommentService
	likeService      *service.LikeService
	followingService *service.FollowingService
	userService      *service.UserService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil when the cache runs in memory; the login limiter
// then fails open.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, aside *cache.Aside, redisClient *redis.Client, mailer service.Mailer) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followingRepo := repository.NewFollowingRepository(db)

	tokens := auth.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessTokenTTL(), cfg.RefreshTokenTTL())
	if mailer == nil {
		mailer = service.NewLogMailer(cfg.MailFrom)
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		cache:          aside,
		promMiddleware: middleware.InitMetrics("inkwell-api"),
	}
	s.authService = service.NewAuthService(userRepo, tokens, mailer, aside, cfg.ResetURLBase)
	s.postService = service.NewPostService(postRepo, userRepo, aside)
	s.commentService = service.NewCommentService(commentRepo, postRepo, aside)
	s.likeService = service.NewLikeService(likeRepo, postRepo, commentRepo, aside)
	s.followingService = service.NewFollowingService(followingRepo, userRepo, aside)
	s.userService = service.NewUserService(userRepo, aside)

	return s, nil
}

// NewApp builds the Fiber app with middleware and routes but does not listen.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Inkwell API",
		BodyLimit:    5 * 1024 * 1024,
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Context Middleware to propagate Request ID and trace ID
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please try again later.")
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Inkwell Metrics Dashboard",
	}))
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Public auth routes
	app.Post("/register", s.Register)
	app.Post("/login", middleware.RateLimit(s.redis, 6, 25*time.Minute,
		"Too many login attempts from this IP, please try again after 25 minutes", "login"), s.Login)
	app.Get("/refresh", s.Refresh)
	app.Get("/logout", s.Logout)
	app.Post("/forgetPassword", s.ForgetPassword)
	app.Put("/resetPassword/:token?", s.ResetPassword)
	app.Put("/users/resetPassword/:token?", s.ResetPassword)

	// Everything below requires a valid access token
	verify := s.Verify()

	posts := app.Group("/posts", verify)
	posts.Get("/", s.GetPosts)
	posts.Post("/", s.CreatePost)
	posts.Get("/user", s.GetMyPosts)
	// Specific /comments routes before generic /:id
	posts.Get("/comments/:id", s.GetPostComments)
	posts.Get("/:id/comments", s.GetPostComments)
	posts.Get("/:id", s.GetPost)
	posts.Delete("/:id", s.DeletePost)

	comments := app.Group("/comments", verify)
	comments.Get("/", s.GetComments)
	comments.Post("/", s.CreateComment)
	comments.Post("/replies", s.CreateReply)
	comments.Get("/replies/:id/total", s.GetTotalReplies)
	comments.Get("/replies/:id", s.GetReplies)
	comments.Delete("/replies/:id", s.DeleteReply)
	comments.Post("/comment/likes", s.CreateLike(models.TargetComment))
	comments.Delete("/comment/likes", s.DeleteLike)
	comments.Post("/reply/likes", s.CreateLike(models.TargetReply))
	comments.Delete("/reply/likes", s.DeleteLike)
	comments.Get("/:id", s.GetComment)
	comments.Delete("/:id", s.DeleteComment)

	likes := app.Group("/likes", verify)
	likes.Post("/", s.CreateLike(models.TargetPost))
	likes.Delete("/", s.DeleteLike)
	likes.Get("/:id", s.GetLikes)
	likes.Delete("/:id", s.DeleteLike)

	users := app.Group("/users", verify)
	users.Get("/", s.GetUsers)
	users.Put("/updateMe", s.UpdateMe)
	users.Put("/updateMyPassword", s.UpdateMyPassword)
	users.Get("/:id", s.GetUser)
	users.Delete("/:id", s.AdminRequired(), s.DeleteUser)

	following := app.Group("/following", verify)
	following.Get("/", s.GetMyFollowing)
	following.Post("/", s.Follow)
	following.Delete("/", s.Unfollow)
	following.Get("/:id/followers", s.GetFollowers)
	following.Get("/:id", s.GetFollowing)
	following.Delete("/:id", s.Unfollow)
}

// LivenessCheck reports that the process is serving.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports whether the database and cache are reachable.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	cacheStatus := "healthy"
	if err := s.cache.Ping(ctx); err != nil {
		cacheStatus = "unhealthy"
	}
	backend := "memory"
	if s.redis != nil {
		backend = "redis"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || cacheStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"cache":    cacheStatus,
		},
		"cacheBackend": backend,
		"time":         time.Now(),
	})
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	s.app = s.NewApp()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing database", slog.String("error", err.Error()))
	}

	// Closes the redis client too when the cache is redis-backed.
	if err := s.cache.Close(); err != nil {
		middleware.Logger.Error("error closing cache", slog.String("error", err.Error()))
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
