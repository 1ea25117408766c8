package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"restaurant-pos/envelope"
	"restaurant-pos/menu-svc/internal/domain"
	"restaurant-pos/menu-svc/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Dishes      service.DishServiceInterface
	Ingredients service.IngredientServiceInterface
}

func NewHandler(dishSvc service.DishServiceInterface, ingredientSvc service.IngredientServiceInterface) *Handler {
	return &Handler{
		Dishes:      dishSvc,
		Ingredients: ingredientSvc,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/dishes", h.getDishes).Methods("GET")
	r.HandleFunc("/api/dishes", h.createDish).Methods("POST")
	r.HandleFunc("/api/dishes/{id}", h.getDish).Methods("GET")
	r.HandleFunc("/api/dishes/{id}", h.updateDish).Methods("PUT")
	r.HandleFunc("/api/dishes/{id}", h.deleteDish).Methods("DELETE")

	r.HandleFunc("/api/ingredients", h.getIngredients).Methods("GET")
	r.HandleFunc("/api/ingredients", h.createIngredient).Methods("POST")
	r.HandleFunc("/api/ingredients/low-stock", h.getLowStock).Methods("GET")
	r.HandleFunc("/api/ingredients/{id}", h.updateIngredient).Methods("PUT")
	r.HandleFunc("/api/ingredients/{id}/quantity", h.setIngredientQuantity).Methods("PUT")
	r.HandleFunc("/api/ingredients/{id}/restock", h.restockIngredient).Methods("POST")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	envelope.WriteData(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "menu-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.Dishes.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, dishes)
}

func (h *Handler) createDish(w http.ResponseWriter, r *http.Request) {
	var dish domain.Dish
	if err := json.NewDecoder(r.Body).Decode(&dish); err != nil {
		envelope.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.Dishes.Create(r.Context(), &dish); err != nil {
		writeServiceError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusCreated, dish)
}

func (h *Handler) getDish(w http.ResponseWriter, r *http.Request) {
	dish, err := h.Dishes.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, dish)
}

func (h *Handler) updateDish(w http.ResponseWriter, r *http.Request) {
	var patch domain.DishPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		envelope.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	dish, err := h.Dishes.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, dish)
}

func (h *Handler) deleteDish(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.Dishes.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, map[string]string{"id": id})
}

func (h *Handler) getIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.Ingredients.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, ingredients)
}

func (h *Handler) getLowStock(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.Ingredients.LowStock(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, ingredients)
}

func (h *Handler) createIngredient(w http.ResponseWriter, r *http.Request) {
	var ingredient domain.Ingredient
	if err := json.NewDecoder(r.Body).Decode(&ingredient); err != nil {
		envelope.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.Ingredients.Create(r.Context(), &ingredient); err != nil {
		writeServiceError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusCreated, ingredient)
}

func (h *Handler) updateIngredient(w http.ResponseWriter, r *http.Request) {
	var patch domain.IngredientPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		envelope.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	ingredient, err := h.Ingredients.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, ingredient)
}

func (h *Handler) setIngredientQuantity(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Quantity *float64 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Quantity == nil {
		envelope.WriteError(w, http.StatusBadRequest, "Quantity is required")
		return
	}
	ingredient, err := h.Ingredients.SetQuantity(r.Context(), mux.Vars(r)["id"], *payload.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, ingredient)
}

func (h *Handler) restockIngredient(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Amount   float64 `json:"amount"`
		Supplier string  `json:"supplier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		envelope.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	ingredient, err := h.Ingredients.Restock(r.Context(), mux.Vars(r)["id"], payload.Amount, payload.Supplier)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, ingredient)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDish),
		errors.Is(err, service.ErrInvalidIngredient),
		errors.Is(err, service.ErrUnknownIngredient):
		envelope.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDishNotFound),
		errors.Is(err, service.ErrIngredientNotFound):
		envelope.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrStaleWrite):
		envelope.WriteError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("ERROR: %v", err)
		envelope.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
