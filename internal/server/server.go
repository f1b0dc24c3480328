// Package server contains the HTTP handlers and route wiring for the API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pickmypit/internal/cache"
	"pickmypit/internal/config"
	"pickmypit/internal/database"
	"pickmypit/internal/featureflags"
	"pickmypit/internal/integrations"
	"pickmypit/internal/middleware"
	"pickmypit/internal/models"
	"pickmypit/internal/repository"
	"pickmypit/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	addressRepo repository.AddressRepository
	speciesRepo repository.SpeciesRepository
	breedRepo   repository.BreedRepository
	blogRepo    repository.BlogRepository
	adminRepo   repository.AdminRepository

	featureFlags *featureflags.Manager
	imageHost    integrations.ImageHost
	postService  *service.PostService
	userService  *service.UserService
	adminService *service.AdminService
}

// NewServer creates a server instance, establishing database and Redis
// connections from config.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	server := &Server{
		config:       cfg,
		db:           db,
		redis:        redisClient,
		userRepo:     repository.NewUserRepository(db),
		postRepo:     repository.NewPostRepository(db),
		addressRepo:  repository.NewAddressRepository(db),
		speciesRepo:  repository.NewSpeciesRepository(db),
		breedRepo:    repository.NewBreedRepository(db),
		blogRepo:     repository.NewBlogRepository(db),
		adminRepo:    repository.NewAdminRepository(db),
		featureFlags: featureflags.NewManager(cfg.FeatureFlags),
	}

	// Prometheus collectors register globally; skip them under APP_ENV=test so
	// repeated server construction does not trip duplicate registration.
	if cfg.Env != "test" {
		server.promMiddleware = middleware.InitMetrics("pickmypit-api")
	}

	if cfg.CloudinaryCloudName != "" {
		server.imageHost = integrations.NewCloudinaryClient(
			cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	}
	var google integrations.GoogleVerifier
	if cfg.GoogleUserInfoURL != "" {
		google = integrations.NewGoogleClient(cfg.GoogleUserInfoURL)
	}

	server.postService = service.NewPostService(server.postRepo, server.imageHost, server.featureFlags)
	server.userService = service.NewUserService(server.userRepo, google)
	server.adminService = service.NewAdminService(server.adminRepo, server.userRepo, server.postRepo)

	return server, nil
}

// SetupMiddleware configures the ambient middleware stack. Order matters:
// request id and context first so everything downstream logs with them, CORS
// before anything that can short-circuit.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())
	app.Use(middleware.TracingMiddleware())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes wires every route group with its auth and rate-limit policy.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Pick My Pit Metrics Dashboard",
	}))

	authRequired := middleware.AuthRequired(s.config.JWTSecret, s.userRepo.GetStatus)
	adminRequired := middleware.AdminRequired(s.config.JWTSecret, s.adminRepo.ValidateAdmin)

	// Auth
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/google-auth", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "google_auth"), s.GoogleAuth)
	auth.Post("/logout", s.Logout)
	auth.Get("/verify-token", authRequired, s.VerifyToken)
	auth.Post("/admin/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "admin_login"), s.AdminLogin)
	auth.Get("/admin/verify", adminRequired, s.AdminVerify)

	// Posts
	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Get("/filter", middleware.RateLimit(
		s.redis, 30, time.Minute, "filter"), s.FilterPosts)
	posts.Get("/slug/:slug", s.GetPostBySlug)
	posts.Get("/user-posts", authRequired, s.GetMyPosts)
	posts.Get("/pending-approvals", adminRequired, s.GetPendingApprovals)
	posts.Post("/", authRequired, middleware.RateLimit(
		s.redis, 1, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Put("/:id/approve", adminRequired, s.ApprovePost)
	posts.Post("/:id/reject", adminRequired, s.RejectPost)
	posts.Put("/:id/ban", adminRequired, s.BanPost)
	posts.Put("/:id/status", authRequired, s.UpdatePostStatus)
	posts.Put("/:id", authRequired, s.UpdatePost)
	posts.Delete("/:id", authRequired, s.DeletePost)
	posts.Get("/:id", s.GetPost)

	// Addresses, all owner-scoped
	addresses := api.Group("/addresses", authRequired)
	addresses.Get("/", s.GetAddresses)
	addresses.Get("/default", s.GetDefaultAddress)
	addresses.Post("/", s.CreateAddress)
	addresses.Put("/:id/default", s.SetDefaultAddress)
	addresses.Put("/:id", s.UpdateAddress)
	addresses.Delete("/:id", s.DeleteAddress)
	addresses.Get("/:id", s.GetAddress)

	// Species taxonomy
	species := api.Group("/species")
	species.Get("/", s.GetSpecies)
	species.Get("/active", s.GetActiveSpecies)
	species.Get("/name/:name", s.GetSpeciesByName)
	species.Post("/", adminRequired, s.CreateSpecies)
	species.Put("/:id", adminRequired, s.UpdateSpecies)
	species.Delete("/:id", adminRequired, s.DeleteSpecies)
	species.Get("/:id", s.GetSpeciesByID)

	// Breeds
	breeds := api.Group("/breeds")
	breeds.Get("/", s.GetBreeds)
	breeds.Get("/species/:speciesId", s.GetBreedsBySpecies)
	breeds.Get("/name/:name", s.GetBreedByName)
	breeds.Post("/", adminRequired, s.CreateBreed)
	breeds.Put("/:id", adminRequired, s.UpdateBreed)
	breeds.Delete("/:id", adminRequired, s.DeleteBreed)
	breeds.Get("/:id", s.GetBreedByID)

	// Users
	users := api.Group("/users")
	users.Get("/profile/me", authRequired, s.GetMyProfile)
	users.Put("/profile/me", authRequired, s.UpdateMyProfile)
	users.Get("/", adminRequired, s.GetAllUsers)
	users.Put("/:id", authRequired, s.UpdateUser)
	users.Delete("/:id", authRequired, s.DeleteUser)
	users.Get("/:id", s.GetUserCard)

	// Admin
	admin := api.Group("/admin", adminRequired)
	admin.Get("/profile", s.GetAdminProfile)
	admin.Put("/profile", s.UpdateAdminProfile)
	admin.Get("/dashboard/stats", s.GetDashboardStats)
	admin.Get("/feature-flags", s.GetFeatureFlags)
	admin.Get("/", s.GetAdmins)
	admin.Post("/", middleware.SuperAdminRequired(), s.CreateAdmin)
	admin.Get("/:id", middleware.SuperAdminRequired(), s.GetAdmin)
	admin.Put("/:id", middleware.SuperAdminRequired(), s.UpdateAdmin)
	admin.Delete("/:id", middleware.SuperAdminRequired(), s.DeleteAdmin)

	// Blogs
	blogs := api.Group("/blogs")
	blogs.Get("/", s.GetBlogs)
	blogs.Get("/slug/:slug", s.GetBlogBySlug)
	blogs.Post("/", adminRequired, s.CreateBlog)
	blogs.Put("/:id", adminRequired, s.UpdateBlog)
	blogs.Delete("/:id", adminRequired, s.DeleteBlog)
	blogs.Get("/:id", adminRequired, s.GetBlog)
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports dependency health. Redis is optional; the app
// degrades to uncached reads without it.
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
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start builds the Fiber app and listens on the configured port.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Pick My Pit API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("unhandled request error", "path", c.Path(), "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	slog.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully drains connections and closes dependencies.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			slog.Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			slog.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			slog.Error("error closing redis", "error", rerr)
		}
	}

	slog.Info("server shutdown complete")
	return nil
}
