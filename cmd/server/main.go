package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/outreach-api/internal/config"
	"github.com/yourusername/outreach-api/internal/handler"
	"github.com/yourusername/outreach-api/internal/middleware"
	"github.com/yourusername/outreach-api/internal/repository"
	"github.com/yourusername/outreach-api/internal/service"
	"github.com/yourusername/outreach-api/internal/workflow"
)

const sessionSweepInterval = time.Minute

func main() {
	// ── Config ───────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// ── Logging ──────────────────────────────────────────
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("Starting Outreach API")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Database (optional) ──────────────────────────────
	var messageRepo *repository.MessageRepo
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to ping database")
		}

		messageRepo = repository.NewMessageRepo(pool)
		if err := messageRepo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to prepare message history schema")
		}
		log.Info().Msg("Database connected, message history enabled")
	} else {
		log.Info().Msg("DATABASE_URL not set, message history disabled")
	}

	// ── External services ────────────────────────────────
	if cfg.ClaudeAPIKey == "" {
		log.Warn().Msg("CLAUDE_API_KEY not set, extraction and generation will report a missing credential")
	}
	claude := service.NewClaudeClient(cfg.ClaudeAPIKey, cfg.ClaudeBaseURL, cfg.ClaudeModel, cfg.GenerationTimeout)

	searcher, err := service.NewSearcher(ctx, cfg.TavilyAPIKey, cfg.GoogleSearchAPIKey, cfg.GoogleSearchEngineID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize search provider, enrichment disabled")
	}
	if searcher != nil {
		log.Info().Str("provider", searcher.Name()).Msg("Search provider configured")
	} else {
		log.Warn().Msg("No search credentials set, company enrichment will be empty")
	}

	// ── Pipeline & sessions ──────────────────────────────
	pipeline := &workflow.Pipeline{
		ExtractText: service.ExtractText,
		Resumes:     service.NewResumeExtractor(claude, cfg.RetryDelay),
		Enricher:    service.NewEnricher(searcher),
		Generator:   service.NewMessageGenerator(claude),
	}
	var historyLister handler.HistoryLister
	if messageRepo != nil {
		pipeline.History = messageRepo
		historyLister = messageRepo
	}

	store := repository.NewSessionStore(pipeline, cfg.SessionTTL)
	go store.RunJanitor(ctx, sessionSweepInterval)

	// ── Router ───────────────────────────────────────────
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	// CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"service":  "outreach-api",
			"sessions": store.Len(),
			"time":     time.Now().UTC(),
		})
	})

	rateLimiter := middleware.NewRateLimiter(ctx, cfg.RateLimitRPS)
	handler.RegisterRoutes(r, store, handler.Handlers{
		Sessions: handler.NewSessionHandler(store),
		Resumes:  handler.NewResumeHandler(cfg.MaxUploadBytes),
		Outreach: handler.NewOutreachHandler(),
		Exports:  handler.NewExportHandler(cfg.ExportDir),
		History:  handler.NewHistoryHandler(historyLister),
	}, rateLimiter.Limit())

	// ── Server ───────────────────────────────────────────
	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		// Generation may take up to the model timeout plus enrichment
		WriteTimeout: cfg.GenerationTimeout*2 + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("Outreach API server running")

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
