package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"saccohub/internal/adapters/http/middleware"
	"saccohub/internal/adapters/http/routes"
	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/config"
	"saccohub/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "saccohub/docs" // Swagger docs
)

// @title SaccoHub API
// @version 1.0
// @description Savings and credit cooperative management API
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@saccohub.example

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.saccohub.example
// @BasePath /
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration (fails fast when signing secrets are missing)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed bootstrap data (dev mode only)
	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed data: %v", err)
	}

	// Optional redis cache for the admin dashboard
	cache := config.ConnectRedis(cfg)

	// Scheduled jobs: interest accrual, proposal close, token cleanup
	savingsService := services.NewSavingsService(
		repositories.NewSavingsRepository(db),
		repositories.NewMemberRepository(db),
	)
	proposalService := services.NewProposalService(repositories.NewProposalRepository(db))
	cronService := services.NewCronService(savingsService, proposalService, repositories.NewRefreshTokenRepository(db))
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron jobs: %v", err)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "SaccoHub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db, cache and cfg for dependency injection)
	routes.Setup(app, db, cache, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
