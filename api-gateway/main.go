package main

import (
	"log"
	"net/http"
	"time"

	"restaurant-pos/api-gateway/internal/gateway"
	"restaurant-pos/config"

	"github.com/rs/cors"
)

func newHandler(cfg gateway.Config, client gateway.HTTPClient) http.Handler {
	gw := gateway.NewGateway(cfg, client)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(gw.SetupRoutes())
}

func main() {
	cfg := gateway.Config{
		MenuSvcURL:      config.GetEnv("MENU_SVC_URL", "http://localhost:8081"),
		OrderSvcURL:     config.GetEnv("ORDER_SVC_URL", "http://localhost:8082"),
		AnalyticsSvcURL: config.GetEnv("ANALYTICS_SVC_URL", "http://localhost:8083"),
	}
	handler := newHandler(cfg, &http.Client{Timeout: 30 * time.Second})

	port := config.GetEnv("PORT", "8080")
	log.Printf("API Gateway starting on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
