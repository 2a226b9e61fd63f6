package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/strauser85/snap-sold-sub001/internal/config"
	"github.com/strauser85/snap-sold-sub001/internal/queue"
	"github.com/strauser85/snap-sold-sub001/internal/repository"
	"github.com/strauser85/snap-sold-sub001/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if !cfg.Redis.Enabled {
		log.Fatal("REDIS_ADDR is required to run the worker")
	}

	table, err := config.LoadCategoryTable(cfg.CategoryTableFile)
	if err != nil {
		log.Fatalf("Failed to load category table: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := queue.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize job queue: %v", err)
	}
	defer rdb.Close()

	var runRecorder service.RunRecorder
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
		runRecorder = repo
		log.Println("✅ Connected to PostgreSQL run log")
	}

	sequenceService := service.BuildSequenceService(cfg, table, runRecorder, false)
	store := queue.NewRedisJobStore(rdb, cfg.Redis.JobTTL)

	processor := queue.NewProcessor(rdb)
	processor.Register(cfg.Redis.Queue, queue.NewSequenceTaskHandler(store, sequenceService))

	log.Printf("🚀 Worker started")
	processor.Listen(ctx, cfg.Redis.Queue)
	log.Println("✅ Worker stopped")
}
