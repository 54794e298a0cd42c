package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cse_motors/internal/config"
	"cse_motors/internal/handler"
	"cse_motors/internal/logger"
	"cse_motors/internal/middleware"
	"cse_motors/internal/nav"
	"cse_motors/internal/repository"
	"cse_motors/internal/service"
	"cse_motors/internal/session"
	"cse_motors/internal/utils"
	"cse_motors/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	// --- Configuration ---
	cfg, err := config.Load(context.Background())
	if err != nil {
		logger.Init(logger.Options{}).Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: !cfg.IsProduction()})
	if envErr != nil {
		log.Info().Msg("no .env file found, relying on environment variables")
	}
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET not set: inventory management will answer with a configuration error")
	}

	// --- Database Connection ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := config.ConnectDB(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer dbPool.Close()

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpiration)
	sessions := session.NewManager(cfg.SessionSecret, cfg.IsProduction())

	// --- Initialize Repositories ---
	accountRepo := repository.NewAccountRepository(dbPool)
	classificationRepo := repository.NewClassificationRepository(dbPool)
	inventoryRepo := repository.NewInventoryRepository(dbPool)

	// --- Initialize Services ---
	accountService := service.NewAccountService(accountRepo, jwtUtil)
	inventoryService := service.NewInventoryService(classificationRepo, inventoryRepo)

	// --- Setup Gin Router ---
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	renderer, err := view.New(router, cfg.ViewsDir)
	if err != nil {
		log.Warn().Err(err).Str("views_dir", cfg.ViewsDir).Msg("no templates loaded, rendering views as JSON")
	}

	navBuilder := nav.NewBuilder(classificationRepo, cfg.NavCacheTTL)
	pages := handler.NewPages(renderer, sessions, navBuilder)

	// --- Initialize Handlers ---
	homeHandler := handler.NewHomeHandler(pages)
	accountHandler := handler.NewAccountHandler(pages, sessions, accountService, jwtUtil.Expiration(), cfg.IsProduction())
	inventoryHandler := handler.NewInventoryHandler(pages, navBuilder, inventoryService)

	// --- Initialize Middlewares ---
	router.Use(middleware.RequestLogger(), middleware.Metrics(), middleware.ErrorHandler(pages.Error), middleware.SessionLocals(sessions))
	router.NoRoute(middleware.NotFound(pages.Error))

	sessionMW := middleware.SessionGate(sessions)
	jwtAuthMW := middleware.JWTAuthMiddleware(jwtUtil, pages.Deny)
	staffRoleMW := middleware.StaffMiddleware(pages.Deny)

	// --- Register Routes ---
	root := router.Group("")
	homeHandler.RegisterHomeRoutes(root)
	accountHandler.RegisterAccountRoutes(root, sessionMW)
	inventoryHandler.RegisterInventoryRoutes(root, jwtAuthMW, staffRoleMW)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		// Check DB connection
		if err := dbPool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server exiting")
}
