package httpapi

import (
	"log"
	"net/http"

	"restaurant-pos/envelope"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func NewRouter(handler *Handler) http.Handler {
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	return cors.Default().Handler(envelope.Recover(r))
}

func StartServer(addr string, handler http.Handler) {
	log.Printf("Menu Service starting on %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
