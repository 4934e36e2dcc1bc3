package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"triage/internal/config"
	"triage/internal/handler"
	"triage/internal/repository"
	"triage/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	config.SetupLogging(cfg.Logging)

	log.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("Intent Triage Service")

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database connection (optional)
	var store service.ClassificationStore
	if cfg.PostgreSQL.Enabled {
		repo, err := repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer repo.Close()

		if err := repo.EnsureSchema(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Failed to prepare database schema")
		}
		store = repo
		log.Info().Msg("Connected to PostgreSQL database")
	} else {
		log.Warn().Msg("PostgreSQL is disabled - audit log and review queue will not be available")
	}

	// Initialize services
	classifier, pretrained := service.BuildIntentClassifier(context.Background(), cfg)
	triageService := service.NewTriageService(classifier, pretrained.Provider(), store)

	log.Info().
		Bool("ai_model", classifier.ModelAvailable()).
		Str("provider", pretrained.Provider()).
		Int("confidence_threshold", classifier.Threshold()).
		Msg("Services initialized")

	// Initialize handlers
	classifyHandler := handler.NewClassifyHandler(triageService)
	reviewHandler := handler.NewReviewHandler(triageService, cfg.Review.DefaultLimit, cfg.Review.MaxLimit)
	healthHandler := handler.NewHealthHandler(triageService, Version)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.AllowedOrigins, ",")
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/", healthHandler.Root)
	router.GET("/health", healthHandler.Health)

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	router.POST("/classify", classifyHandler.Classify)

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		// Classification endpoints
		apiV1.POST("/classify", classifyHandler.Classify)
		apiV1.POST("/classify/batch", classifyHandler.ClassifyBatch)
		apiV1.POST("/classify/stream", classifyHandler.ClassifyBatchStream)

		// Review queue endpoints
		apiV1.GET("/escalations", reviewHandler.List)
		apiV1.GET("/escalations/:id/similar", reviewHandler.Similar)
		apiV1.POST("/escalations/:id/review", reviewHandler.Submit)
	}

	// Serve the demo page
	// This function is implemented in embed.go (production) or static_dev.go (development)
	setupStaticFiles(router, cfg.Server.StaticDir)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("Starting server")
	log.Info().Msgf("Demo UI: http://localhost:%d/static/index.html", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	triageService.Wait()

	log.Info().Msg("Server stopped")
}

// requestLogger logs one line per request
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("Request")
	}
}

func notFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api") {
		c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "hint": "Try /static/index.html"})
}
