package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hijrafr/expat-services-api/internal/config"
	"github.com/hijrafr/expat-services-api/internal/database"
	"github.com/hijrafr/expat-services-api/internal/handler"
	"github.com/hijrafr/expat-services-api/internal/middleware"
	"github.com/hijrafr/expat-services-api/internal/provider"
	"github.com/hijrafr/expat-services-api/internal/repository"
	"github.com/hijrafr/expat-services-api/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		if err := database.SeedData(context.Background(), pool); err != nil {
			log.Fatal().Err(err).Msg("failed to seed data")
		}
		if err := database.SeedAdminUser(context.Background(), pool, cfg.AdminEmail, cfg.AdminName, cfg.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("failed to seed admin user")
		}
	}

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	healthHandler := handler.NewHealthHandler(pool)
	router.GET("/health", healthHandler.Health)

	handler.SetupSwagger(router)
	authService := setupAPIRoutes(router, pool, cfg)

	go purgeSessionsLoop(authService)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func setupAPIRoutes(router *gin.Engine, pool *pgxpool.Pool, cfg *config.Config) *service.AuthService {
	catalogRepo := repository.NewCatalogRepository(pool)
	contentRepo := repository.NewContentRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	assistanceRepo := repository.NewAssistanceRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)

	// A nil gateway is valid: its methods answer ErrNotConfigured, which the
	// handlers surface as 503 for that method only.
	stripeGateway := provider.NewStripeGateway(cfg.StripeSecretKey)
	paypalGateway, err := provider.NewPayPalGateway(cfg.PayPalClientID, cfg.PayPalSecret, cfg.PayPalLive)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize paypal client")
	}

	catalogService := service.NewCatalogService(catalogRepo, contentRepo)
	orderService := service.NewOrderService(catalogRepo, orderRepo)
	paymentService := service.NewPaymentService(orderRepo, paymentRepo, stripeGateway, paypalGateway, cfg.Bank)
	adminPaymentService := service.NewAdminPaymentService(paymentRepo, stripeGateway, paypalGateway)
	assistanceService := service.NewAssistanceService(assistanceRepo, catalogRepo)
	bookingService := service.NewBookingService(bookingRepo)
	authService := service.NewAuthService(adminRepo)

	catalogHandler := handler.NewCatalogHandler(catalogService)
	orderHandler := handler.NewOrderHandler(orderService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	adminPaymentHandler := handler.NewAdminPaymentHandler(adminPaymentService)
	assistanceHandler := handler.NewAssistanceHandler(assistanceService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	authHandler := handler.NewAuthHandler(authService)

	api := router.Group("/api/v1")
	{
		api.GET("/countries", catalogHandler.ListCountries)
		api.GET("/countries/:countryId", catalogHandler.GetCountry)
		api.GET("/countries/:countryId/services", catalogHandler.ListServices)
		api.GET("/destinations", catalogHandler.ListDestinations)
		api.GET("/jobs", catalogHandler.ListJobs)

		api.POST("/quotes", orderHandler.Quote)
		api.POST("/orders", orderHandler.Create)
		api.GET("/orders/:reference", orderHandler.Get)
		api.POST("/orders/:reference/payments", paymentHandler.Create)
		api.POST("/orders/:reference/payments/capture", paymentHandler.Capture)

		api.POST("/assistance-requests", assistanceHandler.Create)
		api.POST("/bookings", bookingHandler.Create)
		api.GET("/bookings/availability", bookingHandler.Availability)

		api.POST("/admin/login", authHandler.Login)
	}

	admin := api.Group("/admin", middleware.AdminAuth(authService))
	{
		admin.POST("/logout", authHandler.Logout)
		admin.GET("/me", authHandler.Me)

		admin.GET("/payments/:provider/:transactionId", adminPaymentHandler.Fetch)
		admin.POST("/payments/:provider/:transactionId/refund", adminPaymentHandler.Refund)
		admin.GET("/orders/:reference/payments", adminPaymentHandler.Timeline)

		admin.GET("/assistance-requests", assistanceHandler.List)
		admin.GET("/assistance-requests/:id", assistanceHandler.Get)
		admin.PATCH("/assistance-requests/:id", assistanceHandler.Update)
		admin.POST("/assistance-requests/:id/documents", assistanceHandler.AddDocument)
		admin.GET("/assistance-requests/:id/documents", assistanceHandler.ListDocuments)
		admin.POST("/documents/:docId/review", assistanceHandler.ReviewDocument)
		admin.POST("/assistance-requests/:id/notes", assistanceHandler.AddNote)
		admin.GET("/assistance-requests/:id/notes", assistanceHandler.ListNotes)
	}

	return authService
}

func purgeSessionsLoop(auth *service.AuthService) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		auth.PurgeExpiredSessions(ctx)
		cancel()
	}
}
