package routes

import (
	"time"

	"saccohub/internal/adapters/http/handlers"
	"saccohub/internal/adapters/http/middleware"
	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/config"
	"saccohub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cache *redis.Client, cfg *config.Config) {
	// Initialize repositories
	memberRepo := repositories.NewMemberRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	savingsRepo := repositories.NewSavingsRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	proposalRepo := repositories.NewProposalRepository(db)

	// Initialize services
	notifyService := services.NewNotificationService(cfg.WebhookURL)
	authService := services.NewAuthService(memberRepo, refreshTokenRepo, cfg)
	memberService := services.NewMemberService(memberRepo, notifyService)
	savingsService := services.NewSavingsService(savingsRepo, memberRepo)
	loanService := services.NewLoanService(loanRepo, notifyService)
	proposalService := services.NewProposalService(proposalRepo)
	transactionService := services.NewTransactionService(transactionRepo)
	dashboardService := services.NewDashboardService(memberRepo, savingsRepo, loanRepo, transactionRepo, cache)
	reportService := services.NewReportService(memberRepo, savingsRepo, loanRepo, transactionRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, memberService, cfg)
	memberHandler := handlers.NewMemberHandler(memberService)
	adminHandler := handlers.NewAdminHandler(memberService, dashboardService, reportService)
	savingsHandler := handlers.NewSavingsHandler(savingsService)
	loanHandler := handlers.NewLoanHandler(loanService)
	proposalHandler := handlers.NewProposalHandler(proposalService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes (public, strict rate limit)
	authRoutes := app.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Member self-service routes (authenticated)
	userRoutes := app.Group("/user")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	setupUserRoutes(userRoutes, memberHandler, transactionHandler)

	// Savings routes (authenticated)
	savingsRoutes := app.Group("/savings")
	savingsRoutes.Use(middleware.AuthMiddleware(cfg))
	setupSavingsRoutes(savingsRoutes, savingsHandler)

	// Loan routes (authenticated)
	loanRoutes := app.Group("/loans")
	loanRoutes.Use(middleware.AuthMiddleware(cfg))
	setupLoanRoutes(loanRoutes, loanHandler)

	// Proposal routes (authenticated)
	proposalRoutes := app.Group("/proposals")
	proposalRoutes.Use(middleware.AuthMiddleware(cfg))
	setupProposalRoutes(proposalRoutes, proposalHandler)

	// Treasury routes (TREASURER or ADMIN, verified against the store)
	treasuryRoutes := app.Group("/treasury")
	treasuryRoutes.Use(middleware.AuthMiddleware(cfg))
	treasuryRoutes.Use(middleware.TreasurerOrAdmin(memberRepo))
	setupTreasuryRoutes(treasuryRoutes, loanHandler)

	// Admin routes (ADMIN role, verified against the store on every request)
	adminRoutes := app.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly(memberRepo))
	setupAdminRoutes(adminRoutes, adminHandler, loanHandler, proposalHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (5 req/min/IP)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
}

// setupUserRoutes configures member self-service routes
func setupUserRoutes(router fiber.Router, memberHandler *handlers.MemberHandler, txHandler *handlers.TransactionHandler) {
	router.Get("/profile", memberHandler.GetProfile)
	router.Put("/profile", memberHandler.UpdateProfile)
	router.Get("/transactions", txHandler.MyTransactions)
}

// setupSavingsRoutes configures savings account routes
func setupSavingsRoutes(router fiber.Router, handler *handlers.SavingsHandler) {
	router.Post("/accounts", handler.OpenAccount)
	router.Get("/accounts", handler.MyAccounts)
	router.Post("/accounts/:id/deposit", handler.Deposit)
	router.Post("/accounts/:id/withdraw", handler.Withdraw)
}

// setupLoanRoutes configures member loan routes
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	router.Post("/", handler.Apply)
	router.Get("/", handler.MyLoans)
	router.Post("/:id/repay", handler.Repay)
}

// setupProposalRoutes configures governance proposal routes
func setupProposalRoutes(router fiber.Router, handler *handlers.ProposalHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)
	router.Patch("/:id/activate", handler.ActivateOwn)
	router.Post("/:id/vote", handler.Vote)
}

// setupTreasuryRoutes configures loan money-movement routes
func setupTreasuryRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	router.Post("/loans/:id/disburse", handler.Disburse)
	router.Post("/loans/:id/repayments", handler.RecordRepayment)
}

// setupAdminRoutes configures admin routes
func setupAdminRoutes(
	router fiber.Router,
	adminHandler *handlers.AdminHandler,
	loanHandler *handlers.LoanHandler,
	proposalHandler *handlers.ProposalHandler,
) {
	// Membership management
	router.Get("/members", adminHandler.ListMembers)
	router.Patch("/members/:id/status", adminHandler.ChangeMemberStatus)
	router.Patch("/members/:id/role", adminHandler.SetMemberRole)
	router.Delete("/members/:id", adminHandler.DeactivateMember)
	router.Get("/pending-members", adminHandler.ListPendingMembers)

	// Loan management
	router.Get("/loans", loanHandler.ListLoans)
	router.Get("/loans/applications", loanHandler.ListApplications)
	router.Patch("/loans/applications/:id/:action", loanHandler.Decide)

	// Proposal management
	router.Patch("/proposals/:id/activate", proposalHandler.Activate)
	router.Delete("/proposals/:id", proposalHandler.Cancel)

	// Dashboard & reporting
	router.Get("/dashboard", middleware.PrivateCacheHeaders(60*time.Second), adminHandler.DashboardSummary)
	router.Get("/recent-transactions", adminHandler.RecentTransactions)
	router.Post("/reports/generate", middleware.NoCacheHeaders(), adminHandler.GenerateReport)
}
