package main

import (
	"context"
	"log"
	"os"
	"time"

	"brookschat/internal/analytics"
	"brookschat/internal/api"
	"brookschat/internal/catalog"
	"brookschat/internal/config"
	"brookschat/internal/notify"
	"brookschat/internal/objectstore"
	"brookschat/internal/prompt"
	"brookschat/internal/redis"
	"brookschat/internal/service/ai"
	"brookschat/internal/session"
	"brookschat/internal/storage"
	"brookschat/internal/worker"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Secrets may live in a .env file during development.
	_ = godotenv.Load()

	cfgPath := os.Getenv("BROOKSCHAT_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	cat, err := catalog.New()
	if err != nil {
		log.Fatalf("load photo catalog: %v", err)
	}
	log.Printf("photo catalog loaded: %d records", cat.Len())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Transcript archive is optional; without a configured database exports
	// go straight to email.
	sink := notify.Sink(notify.NewEmailSink(cfg.Email))
	dbType := os.Getenv("BROOKSCHAT_DB")
	if dbType != "" {
		db, err := storage.Open(dbType, cfg)
		if err != nil {
			log.Fatalf("open archive database: %v", err)
		}
		defer db.Close()
		if err := storage.Migrate(db, dbType); err != nil {
			log.Fatalf("migrate archive database: %v", err)
		}
		sink = notify.WithArchive(sink, storage.NewArchive(db))
	}

	registry := session.NewRegistry(sink,
		session.WithTimeout(time.Duration(cfg.BasicConfig.SessionTimeoutMinutes)*time.Minute),
		session.WithSweepProbability(cfg.BasicConfig.SweepProbability),
	)
	sweepInterval := time.Duration(cfg.BasicConfig.SweepIntervalMinutes) * time.Minute
	registry.StartSweeper(ctx, sweepInterval)

	responder, err := ai.NewService(cfg, cfg.BasicConfig.DefaultProvider)
	if err != nil {
		log.Fatalf("init ai service: %v", err)
	}

	recorder, err := analytics.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Printf("analytics disabled: %v", err)
		recorder = nil
	}
	if recorder != nil {
		defer recorder.Close(context.Background())
	}

	cache, err := redis.NewClient(cfg)
	if err != nil {
		log.Printf("redis unavailable, rate limiting disabled: %v", err)
		cache = nil
	}
	if cache != nil {
		defer cache.Close()
	}

	photos, err := objectstore.New(ctx, cfg.S3.Bucket, cfg.S3.Region)
	if err != nil {
		log.Printf("s3 disabled: %v", err)
		photos = nil
	}
	if photos != nil && !photos.Probe(ctx) {
		photos = nil
	}

	jobs := worker.NewPool(2, 128)
	defer jobs.Stop()

	handler := api.NewHandler(cat, registry, responder, api.Options{
		Recorder:   recorder,
		Jobs:       jobs,
		Photos:     photos,
		Cache:      cache,
		Profile:    prompt.DefaultProfile,
		PhotoLimit: cfg.BasicConfig.PhotoLimit,
		RateLimit:  cfg.BasicConfig.RateLimitPerMinute,
		HashSalt:   cfg.BasicConfig.HashSalt,
	})

	router := gin.Default()
	router.Use(cors.Default())
	handler.RegisterRoutes(router)

	if err := router.Run(cfg.BasicConfig.ServerAddress); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
