// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"abusebin/internal/cache"
	"abusebin/internal/config"
	"abusebin/internal/database"
	"abusebin/internal/middleware"
	"abusebin/internal/models"
	"abusebin/internal/notifications"
	"abusebin/internal/repository"
	"abusebin/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo    repository.UserRepository
	followRepo  repository.FollowRepository
	pasteRepo   repository.PasteRepository
	commentRepo repository.CommentRepository
	hallRepo    repository.HallPostRepository

	userService       *service.UserService
	pasteService      *service.PasteService
	commentService    *service.CommentService
	moderationService *service.ModerationService
	hallService       *service.HallService

	hub *notifications.Hub
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Used by tests and bootstrap code that manages DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	pasteRepo := repository.NewPasteRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	hallRepo := repository.NewHallPostRepository(db)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("abusebin-api"),
		userRepo:       userRepo,
		followRepo:     followRepo,
		pasteRepo:      pasteRepo,
		commentRepo:    commentRepo,
		hallRepo:       hallRepo,
		hub:            notifications.NewHub(),
	}

	s.userService = service.NewUserService(userRepo, followRepo, pasteRepo)
	s.pasteService = service.NewPasteService(pasteRepo, userRepo)
	s.commentService = service.NewCommentService(commentRepo, pasteRepo, userRepo)
	s.moderationService = service.NewModerationService(userRepo, followRepo, pasteRepo)
	s.hallService = service.NewHallService(hallRepo, pasteRepo, userRepo)

	return s
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.RequestLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
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
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "abuse.bin Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/session", middleware.AuthRequired, s.Session)
	auth.Post("/logout", middleware.AuthRequired, s.Logout)

	// Public paste routes. Optional auth so view counting can skip authors.
	pastes := api.Group("/pastes")
	pastes.Get("/", s.GetPastes)
	pastes.Get("/:id/comments", s.GetComments)
	pastes.Get("/:id", middleware.OptionalAuth, s.GetPaste)

	// Public user routes
	users := api.Group("/users")
	users.Get("/", s.GetUsers)
	users.Get("/by-name/:username", s.GetUserByUsername)
	users.Get("/:id/pastes", s.GetUserPastes)
	users.Get("/:id/stats", s.GetUserStats)
	users.Get("/:id", s.GetUser)

	// Hall of fame, public reads
	api.Get("/hall", s.GetHallPosts)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	me := protected.Group("/me")
	me.Get("/", s.GetMyProfile)
	me.Put("/", s.UpdateMyProfile)
	me.Delete("/", s.DeleteMyAccount)

	protected.Get("/users/:id/follow", s.FollowState)
	protected.Post("/users/:id/follow", s.FollowUser)
	protected.Delete("/users/:id/follow", s.UnfollowUser)

	protected.Get("/pastes/can-post", s.CanPost)
	protected.Post("/pastes", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_paste"), s.CreatePaste)
	protected.Put("/pastes/:id", s.UpdatePaste)
	protected.Delete("/pastes/:id", s.DeletePaste)
	protected.Post("/pastes/:id/react", s.ReactToPaste)

	protected.Post("/pastes/:id/comments", middleware.RateLimit(
		s.redis, 6, time.Minute, "create_comment"), s.CreateComment)
	protected.Put("/comments/:commentId", s.UpdateComment)
	protected.Delete("/comments/:commentId", s.DeleteComment)

	protected.Post("/hall", s.CreateHallPost)
	protected.Delete("/hall/:id", s.DeleteHallPost)

	// Moderation
	admin := protected.Group("/admin")
	admin.Post("/users/:id/ban", s.BanUser)
	admin.Post("/users/:id/unban", s.UnbanUser)
	admin.Put("/users/:id/role", s.AssignRole)
	admin.Delete("/users/:id", s.DeleteUser)
	admin.Delete("/users/:id/avatar", s.RemoveAvatar)
	admin.Put("/users/:id/effect-permission", s.SetEffectPermission)
	admin.Put("/pastes/:id/pin", s.PinPaste)
	admin.Post("/pastes/:id/reset-views", s.ResetPasteViews)

	// Realtime relay
	app.Get("/ws", middleware.WebSocketAuthRequired, s.RelayWebSocket())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The app runs without Redis, just degraded.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// App builds the Fiber app with all middleware and routes, creating it on
// first use.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	app := fiber.New(fiber.Config{
		AppName: "abuse.bin API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.hub != nil {
		s.hub.Shutdown()
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
