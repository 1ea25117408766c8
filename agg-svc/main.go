package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"restaurant-pos/agg-svc/internal/service"
	"restaurant-pos/agg-svc/internal/storage"
	"restaurant-pos/config"
)

func main() {
	rdb := config.MustInitRedis()
	defer rdb.Close()

	reader := config.NewKafkaReader(config.GetEnv("ORDERS_TOPIC", "orders"), "agg-svc")
	defer func() {
		if err := reader.Close(); err != nil {
			log.Printf("Warning: failed to close Kafka reader: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service.NewConsumer(reader, storage.NewStore(rdb)).Start(ctx)
}
