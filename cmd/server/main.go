package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autoradar/internal/config"
	"autoradar/internal/handler"
	"autoradar/internal/publisher"
	"autoradar/internal/repository"
	"autoradar/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
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
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Logging)
	log.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("Dealer opportunity radar")

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database connection
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer repo.Close()
	log.Info().Msg("Connected to PostgreSQL database")

	// Optional opportunity alert stream
	var alerts service.AlertPublisher
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		alerts = publisher.NewStreamPublisher(client, cfg.Redis.Stream)
		log.Info().Str("addr", cfg.Redis.Addr).Str("stream", cfg.Redis.Stream).Msg("Opportunity alert stream enabled")
	} else {
		log.Info().Msg("Opportunity alert stream disabled (REDIS_ADDR not set)")
	}

	// Initialize pipeline components
	extractor := service.NewFeatureExtractor(cfg.Tables)
	keys := service.NewKeyBuilder(extractor)
	ranker := service.NewInGroupRanker(cfg.Tables, extractor)
	scorer := service.NewOpportunityScorer(cfg.Tables, service.DefaultScoreWeights(), cfg.Opportunity.MinPrice)
	cabs := service.NewCabClassifier(extractor)
	opportunities := service.NewOpportunityService(
		repo, keys, ranker, scorer, cabs, alerts,
		cfg.Opportunity.MinGroupSize,
		log.With().Str("component", "opportunity").Logger(),
	)
	log.Info().Msg("Services initialized")

	// Initialize handlers
	opportunityHandler := handler.NewOpportunityHandler(opportunities, cfg.Opportunity.DefaultLimit, cfg.Opportunity.MaxLimit)
	listingHandler := handler.NewListingHandler(repo, cfg.Opportunity.SimilarLimit)
	embeddingHandler := handler.NewEmbeddingHandler(repo)
	feedbackHandler := handler.NewFeedbackHandler(repo)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "opportunity-radar",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/opportunities", opportunityHandler.GetOpportunities)
		apiV1.GET("/listings/:id", listingHandler.GetListing)
		apiV1.GET("/listings/:id/similar", listingHandler.GetSimilar)
		apiV1.POST("/embeddings/batch", embeddingHandler.BatchUpdate)
		apiV1.POST("/feedback", feedbackHandler.Submit)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("Starting server")

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
