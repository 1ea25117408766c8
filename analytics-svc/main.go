package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "restaurant-pos/analytics-svc/internal/api/http"
	"restaurant-pos/analytics-svc/internal/aggregator"
	"restaurant-pos/analytics-svc/internal/service"
	"restaurant-pos/analytics-svc/internal/storage"
	"restaurant-pos/config"

	"github.com/redis/go-redis/v9"
)

func loadPolicy() aggregator.BucketPolicy {
	policy := aggregator.BucketPolicy{
		MorningStart:   config.GetEnvInt("SALES_MORNING_START", 0),
		AfternoonStart: config.GetEnvInt("SALES_AFTERNOON_START", 12),
		EveningStart:   config.GetEnvInt("SALES_EVENING_START", 18),
		Location:       config.MustLoadLocation("POS_TIMEZONE"),
	}
	if err := policy.Validate(); err != nil {
		log.Fatal("Invalid sales bucket configuration:", err)
	}
	return policy
}

func buildServices(db *sql.DB, rdb *redis.Client, policy aggregator.BucketPolicy) (http.Handler, *service.SyncService) {
	repo := storage.NewPostgresRepository(db)
	ttl := time.Duration(config.GetEnvInt("SALES_CACHE_TTL_MINUTES", 10)) * time.Minute

	analytics := service.NewAnalyticsService(repo, storage.NewRedisCache(rdb, ttl), policy)
	predictions := service.NewPredictionService(repo, policy)
	syncer := service.NewSyncService(repo, analytics, predictions, policy.Location,
		config.GetEnvInt("SYNC_INTERVAL_MINUTES", 60))

	handler := httpapi.NewHandler(analytics, predictions, syncer)
	return httpapi.NewRouter(handler), syncer
}

func main() {
	db := config.MustInitPostgres()
	defer db.Close()
	config.MustEnsureSchema(db)

	rdb := config.MustInitRedis()
	defer rdb.Close()

	handler, syncer := buildServices(db, rdb, loadPolicy())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go syncer.Start(ctx)

	httpapi.StartServer(":"+config.GetEnv("PORT", "8083"), handler)
}
