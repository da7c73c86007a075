package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/airwuu/appstore/internal/config"
	"github.com/airwuu/appstore/internal/database"
	"github.com/airwuu/appstore/internal/gateway"
	"github.com/airwuu/appstore/internal/handlers"
	"github.com/airwuu/appstore/internal/middleware"
	"github.com/airwuu/appstore/internal/services"
	"github.com/airwuu/appstore/internal/session"
	"github.com/airwuu/appstore/internal/types"
	"gorm.io/gorm"
)

// @title App Store Storefront API
// @version 1.0.0
// @description Storefront service for the app marketplace: browse, search, install state, reviews, and moderation reads over the remote App Store API

// @host localhost:3000
// @BasePath /api
// @schemes http https

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect the session store database. A storage failure degrades the
	// session to in-memory-only for this run; it never prevents startup.
	var db *gorm.DB
	db, err = database.Connect(cfg)
	if err != nil {
		log.Printf("Session database unavailable, session is in-memory only: %v", err)
		db = nil
	} else {
		defer database.Close(db)
		if err := database.AutoMigrate(db); err != nil {
			log.Printf("Session migrations failed, session is in-memory only: %v", err)
			db = nil
		}
	}

	// Remote API client
	gw, err := gateway.New(gateway.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
	})
	if err != nil {
		log.Fatalf("Failed to create gateway client: %v", err)
	}

	// Session store hydrates from durable storage here
	sessions := session.NewStore(db)

	// Storefront orchestration
	svc := services.NewStorefront(sessions, gw, cfg.DebounceWindow, cfg.ResultLimit)
	defer svc.Close()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("appstore_storefront")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Health
	app.Get("/health", func(c *fiber.Ctx) error {
		result := services.HealthCheck(cfg, db)
		status := fiber.StatusOK
		if result.Status == "unhealthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(result)
	})

	// API routes under /api
	api := app.Group("/api")

	// Version and session middleware
	api.Use(middleware.VersionMiddleware())
	api.Use(middleware.WithSession(sessions))

	// Create handlers
	storefrontHandler := &handlers.StorefrontHandler{Svc: svc}
	appsHandler := &handlers.AppsHandler{Svc: svc}
	reviewsHandler := &handlers.ReviewsHandler{Svc: svc}
	sessionHandler := &handlers.SessionHandler{Svc: svc}
	adminHandler := &handlers.AdminHandler{Svc: svc}

	// Storefront routes (public reads)
	store := api.Group("/storefront")
	store.Get("/apps", storefrontHandler.Browse)
	store.Put("/facets", storefrontHandler.UpdateFacets)
	store.Get("/results", storefrontHandler.Results)
	store.Get("/categories", storefrontHandler.Categories)
	store.Get("/users", storefrontHandler.Users)
	store.Get("/apps/:id", appsHandler.Detail)
	store.Post("/apps/:id/report", appsHandler.Report)

	// Install-state routes (require a logged-in user)
	store.Post("/apps/:id/install", middleware.RequireUser(), appsHandler.Install)
	store.Delete("/apps/:id/install", middleware.RequireUser(), appsHandler.Uninstall)

	// Review routes (require a logged-in user)
	store.Post("/apps/:id/reviews", middleware.RequireUser(), reviewsHandler.Create)
	store.Put("/reviews/:id", middleware.RequireUser(), reviewsHandler.Update)
	store.Delete("/reviews/:id", middleware.RequireUser(), reviewsHandler.Delete)

	// Session routes
	api.Get("/session", sessionHandler.Current)
	api.Post("/session/login", sessionHandler.Login)
	api.Post("/session/logout", sessionHandler.Logout)

	// Admin moderation routes
	admin := api.Group("/admin")
	admin.Get("/reported-users", adminHandler.ReportedUsers)
	admin.Get("/reported-apps", adminHandler.ReportedApps)
	admin.Get("/users/:id/reports", adminHandler.UserReports)
	admin.Get("/apps/:id/reports", adminHandler.AppReports)
	admin.Post("/apps", appsHandler.Create)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting storefront on port %s (api: %s)", port, cfg.APIBaseURL)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Typed handler/middleware errors carry their own code and type
	if e, ok := err.(*types.CustomError); ok {
		code = e.Code
		message = e.Message
		errorType = e.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
