package main

import (
	"database/sql"
	"net/http"

	"restaurant-pos/config"
	httpapi "restaurant-pos/menu-svc/internal/api/http"
	"restaurant-pos/menu-svc/internal/service"
	"restaurant-pos/menu-svc/internal/storage"
)

func buildHandler(db *sql.DB) http.Handler {
	repo := storage.NewPostgresRepository(db)
	handler := httpapi.NewHandler(
		service.NewDishService(repo, repo),
		service.NewIngredientService(repo),
	)
	return httpapi.NewRouter(handler)
}

func main() {
	db := config.MustInitPostgres()
	defer db.Close()
	config.MustEnsureSchema(db)

	httpapi.StartServer(":"+config.GetEnv("PORT", "8081"), buildHandler(db))
}
