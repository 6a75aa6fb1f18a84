package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/oakmed/clinic-ops/internal/analytics"
	"github.com/oakmed/clinic-ops/internal/clinic"
	"github.com/oakmed/clinic-ops/internal/config"
	"github.com/oakmed/clinic-ops/internal/db"
	redisclient "github.com/oakmed/clinic-ops/internal/redis"
)

// The cache warmer recomputes the dashboard snapshot on an interval so
// that dashboard loads almost always hit a warm cache instead of paying
// for a full aggregation.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("cache-warmer starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running cache warmer in env=%s interval=%s", cfg.Env, cfg.WarmInterval)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}()
	log.Println("connected to Redis")

	repo := clinic.NewPgRepository(pgPool)
	cache := redisclient.NewSnapshotCache(rdb, cfg.AnalyticsCacheTTL)
	svc := analytics.NewService(repo, cache)

	// Run once at startup
	warmOnce(rootCtx, svc, cache)

	ticker := time.NewTicker(cfg.WarmInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Println("shutdown signal received, stopping cache warmer")
			return
		case <-ticker.C:
			warmOnce(rootCtx, svc, cache)
		}
	}
}

func warmOnce(ctx context.Context, svc *analytics.Service, cache *redisclient.SnapshotCache) {
	runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	start := time.Now()
	snap, err := svc.Snapshot(runCtx, time.Now())
	if err != nil {
		log.Printf("warm run error: %v", err)
		return
	}

	if err := cache.SetSnapshot(runCtx, snap); err != nil {
		log.Printf("warm cache write error: %v", err)
		return
	}

	log.Printf("warmed snapshot in %s (appointments=%d patients=%d doctors=%d)",
		time.Since(start),
		snap.Summary.TotalAppointments,
		snap.Summary.TotalPatients,
		snap.Summary.TotalDoctors,
	)
}
