package main

import (
	"database/sql"
	"net/http"
	"time"

	"restaurant-pos/config"
	httpapi "restaurant-pos/order-svc/internal/api/http"
	"restaurant-pos/order-svc/internal/service"
	"restaurant-pos/order-svc/internal/storage"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

func buildHandler(db *sql.DB, rdb *redis.Client, writer *kafka.Writer, loc *time.Location) http.Handler {
	var publisher service.OrderPublisher
	if writer != nil {
		publisher = storage.NewKafkaPublisher(writer)
	}
	orders := service.NewOrderService(
		storage.NewPostgresRepository(db),
		storage.NewRedisCache(rdb, 24*time.Hour),
		publisher,
		service.DefaultQRGenerator{BaseURL: config.GetEnv("RECEIPT_BASE_URL", "http://localhost:3000")},
		loc,
	)
	return httpapi.NewRouter(httpapi.NewHandler(orders))
}

func main() {
	db := config.MustInitPostgres()
	defer db.Close()
	config.MustEnsureSchema(db)

	rdb := config.MustInitRedis()
	defer rdb.Close()

	writer := config.NewKafkaWriter(config.GetEnv("ORDERS_TOPIC", "orders"))
	defer writer.Close()

	handler := buildHandler(db, rdb, writer, config.MustLoadLocation("POS_TIMEZONE"))
	httpapi.StartServer(":"+config.GetEnv("PORT", "8082"), handler)
}
