package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/strauser85/snap-sold-sub001/internal/config"
	"github.com/strauser85/snap-sold-sub001/internal/handler"
	"github.com/strauser85/snap-sold-sub001/internal/queue"
	"github.com/strauser85/snap-sold-sub001/internal/repository"
	"github.com/strauser85/snap-sold-sub001/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Print version info
	log.Printf("Listing Video Sequencer")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	table, err := config.LoadCategoryTable(cfg.CategoryTableFile)
	if err != nil {
		log.Fatalf("Failed to load category table: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run log (optional)
	var (
		runRecorder service.RunRecorder
		runService  *service.RunService
	)
	if cfg.PostgreSQL.Enabled {
		repo, err := repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer repo.Close()

		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare run log schema: %v", err)
		}
		log.Println("✅ Connected to PostgreSQL run log")

		runRecorder = repo
		runService = service.NewRunService(repo, time.Duration(cfg.Retention.Days)*24*time.Hour)
	} else {
		log.Println("⚠️  Run log is disabled - set RUN_LOG_ENABLED=true to record runs")
	}

	// Async jobs (optional)
	var jobs *queue.JobQueue
	if cfg.Redis.Enabled {
		rdb, err := queue.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to initialize job queue: %v", err)
		}
		defer rdb.Close()

		jobs = queue.NewJobQueue(queue.NewRedisJobStore(rdb, cfg.Redis.JobTTL), queue.NewProcessor(rdb), cfg.Redis.Queue)
		log.Printf("✅ Async jobs enabled on queue %s", cfg.Redis.Queue)
	} else {
		log.Println("⚠️  Async jobs are disabled - set REDIS_ADDR to enable them")
	}

	sequenceService := service.BuildSequenceService(cfg, table, runRecorder, false)

	log.Println("✅ Services initialized")

	// Retention pruning
	if runService != nil && cfg.Retention.Schedule != "" && cfg.Retention.Days > 0 {
		scheduler := cron.New()
		_, err := scheduler.AddFunc(cfg.Retention.Schedule, func() {
			pruned, err := runService.Prune(context.Background())
			if err != nil {
				log.Printf("⚠️  Run log pruning failed: %v", err)
				return
			}
			log.Printf("🧹 Pruned %d runs older than %d days", pruned, cfg.Retention.Days)
		})
		if err != nil {
			log.Fatalf("Invalid RETENTION_SCHEDULE %q: %v", cfg.Retention.Schedule, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		log.Printf("✅ Run log retention scheduled (%s, %d days)", cfg.Retention.Schedule, cfg.Retention.Days)
	}

	// Initialize handlers
	sequenceHandler := handler.NewSequenceHandler(sequenceService, jobs)
	runHandler := handler.NewRunHandler(runService)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = config.SplitList(cfg.Server.AllowedOrigins)
	corsConfig.AllowMethods = config.SplitList(cfg.Server.AllowedMethods)
	corsConfig.AllowHeaders = config.SplitList(cfg.Server.AllowedHeaders)
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "listing-video-sequencer",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
			"run_log":    runService != nil,
			"jobs":       jobs != nil,
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
		// Sequencing endpoints
		apiV1.POST("/sequence", sequenceHandler.Sequence)
		apiV1.POST("/sequence/stream", sequenceHandler.SequenceStream) // Streaming sequencing
		apiV1.POST("/sequence/jobs", sequenceHandler.SubmitJob)
		apiV1.GET("/sequence/jobs/:id", sequenceHandler.GetJob)

		// Narration-only endpoints
		apiV1.POST("/captions", sequenceHandler.Captions)
		apiV1.POST("/script/score", sequenceHandler.ScoreScript)

		// Run log endpoints
		apiV1.GET("/runs/:id", runHandler.GetRun)
		apiV1.GET("/runs/:id/similar", runHandler.SimilarRuns)
		apiV1.POST("/runs/:id/feedback", runHandler.Feedback)
	}

	// Serve the preview player
	// This function is implemented in embed.go (production) or static_dev.go (development)
	setupStaticFiles(router)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API Documentation: http://localhost:%d/api/v1", cfg.Server.Port)
	log.Printf("🌐 Preview player: http://localhost:%d", cfg.Server.Port)

	// Graceful shutdown
	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}
