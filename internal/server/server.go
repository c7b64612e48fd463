// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	_ "yanjihub/docs" // swagger docs
	"yanjihub/internal/cache"
	"yanjihub/internal/config"
	"yanjihub/internal/database"
	"yanjihub/internal/featureflags"
	"yanjihub/internal/middleware"
	"yanjihub/internal/moderation"
	"yanjihub/internal/repository"
	"yanjihub/internal/service"
	"yanjihub/internal/translate"

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
	promMiddleware *fiberprometheus.FiberPrometheus
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	inquiryRepo    repository.InquiryRepository
	blacklistRepo  repository.BlacklistRepository
	reportRepo     repository.ReportRepository
	featureFlags   *featureflags.Manager
	wordlist       *moderation.Wordlist
	postService    *service.PostService
	commentService *service.CommentService
	inquiryService *service.InquiryService
	adminService   *service.AdminService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Initialize Redis
	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	translator, err := translate.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, fmt.Errorf("translation client failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient, translator)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, translator translate.Translator) (*Server, error) {
	middleware.InitMiddleware(cfg)

	wordlist, err := moderation.LoadWordlist(cfg.BannedWordsFile)
	if err != nil {
		return nil, fmt.Errorf("banned word list failed: %w", err)
	}

	// Initialize repositories
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	inquiryRepo := repository.NewInquiryRepository(db)
	blacklistRepo := repository.NewBlacklistRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Initialize Prometheus metrics
	prom := middleware.InitMetrics("yanjihub-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		inquiryRepo:    inquiryRepo,
		blacklistRepo:  blacklistRepo,
		reportRepo:     reportRepo,
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		wordlist:       wordlist,
	}
	server.postService = service.NewPostService(postRepo, blacklistRepo, translator, wordlist, server.featureFlags)
	server.commentService = service.NewCommentService(commentRepo, postRepo, wordlist)
	server.inquiryService = service.NewInquiryService(inquiryRepo, postRepo, wordlist)
	server.adminService = service.NewAdminService(postRepo, commentRepo, blacklistRepo, reportRepo, inquiryRepo,
		server.featureFlags, cfg.AdminPasswordHash, cfg.JWTSecret)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Anonymous viewer identity for reaction dedup
	app.Use(middleware.ViewerKey())

	// Context Middleware to propagate Request ID and viewer key
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Viewer-Key",
		ExposeHeaders:    "X-Viewer-Key, X-Trace-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
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

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)
	api.Get("/", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Yanjihub Backend Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Public post routes (browse plus anonymous submission)
	posts := api.Group("/posts")
	posts.Get("/", s.GetFeed)
	posts.Post("/", middleware.RateLimit(
		s.redis, 3, 5*time.Minute, "create_post"), s.CreatePost)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	posts.Get("/:id/comments", s.GetComments)
	posts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 5, time.Minute, "create_comment"), s.CreateComment)
	posts.Post("/:id/reactions", s.ReactToPost)
	posts.Post("/:id/report", middleware.RateLimit(
		s.redis, 5, time.Minute, "report"), s.ReportPost)
	posts.Post("/:id/inquiries", middleware.RateLimit(
		s.redis, 3, time.Minute, "inquiry"), s.CreateInquiry)
	posts.Get("/:id", s.GetPost)

	// Comment engagement routes
	comments := api.Group("/comments")
	comments.Post("/:id/like", s.LikeComment)
	comments.Post("/:id/report", middleware.RateLimit(
		s.redis, 5, time.Minute, "report_comment"), s.ReportComment)

	// Admin login, then everything else behind the admin JWT
	api.Post("/admin/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "admin_login"), s.AdminLogin)

	admin := api.Group("/admin", middleware.AdminRequired)
	admin.Get("/stats", s.GetAdminStats)
	admin.Get("/reports", s.GetReports)
	admin.Get("/posts", s.GetAdminFeed)
	admin.Post("/posts/:id/approve", s.ApprovePost)
	admin.Post("/posts/:id/reject", s.RejectPost)
	admin.Post("/posts/:id/premium", s.SetPremium)
	admin.Post("/posts/:id/toggle/:flag", s.TogglePostFlag)
	admin.Get("/posts/:id/inquiries", s.GetInquiries)
	admin.Get("/posts/:id/comments", s.GetAdminComments)
	admin.Delete("/posts/:id", s.DeletePost)
	admin.Delete("/comments/:id", s.DeleteComment)
	admin.Get("/blacklist", s.GetBlacklist)
	admin.Post("/blacklist", s.AddBlacklist)
	admin.Delete("/blacklist/:id", s.RemoveBlacklist)
	admin.Get("/feature-flags", s.GetFeatureFlags)
	admin.Put("/feature-flags/:name", s.SetFeatureFlag)
	admin.Post("/premium/sweep", s.SweepPremium)
}

// Shutdown gracefully releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	// Close database connection
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			return cerr
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			return rerr
		}
	}
	return nil
}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
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
		// The app degrades to uncached reads without Redis.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Yanjihub",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}
