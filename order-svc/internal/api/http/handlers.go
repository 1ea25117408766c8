package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"restaurant-pos/envelope"
	"restaurant-pos/order-svc/internal/domain"
	"restaurant-pos/order-svc/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Orders service.OrderServiceInterface
}

func NewHandler(orders service.OrderServiceInterface) *Handler {
	return &Handler{Orders: orders}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/orders", h.getOrders).Methods("GET")
	r.HandleFunc("/api/orders", h.createOrder).Methods("POST")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}/status", h.updateOrderStatus).Methods("PUT")
	r.HandleFunc("/api/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	envelope.WriteData(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	startDate := firstNonEmpty(query.Get("startDate"), query.Get("start_date"))
	endDate := firstNonEmpty(query.Get("endDate"), query.Get("end_date"))

	orders, err := h.Orders.List(r.Context(), startDate, endDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, orders)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var order domain.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		envelope.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.Orders.Create(r.Context(), &order, r.Header.Get("Idempotency-Key")); err != nil {
		writeServiceError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusCreated, order)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, order)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var change domain.StatusChange
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil || change.Status == "" {
		envelope.WriteError(w, http.StatusBadRequest, "Status is required")
		return
	}
	order, err := h.Orders.UpdateStatus(r.Context(), mux.Vars(r)["id"], change)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	png, err := h.Orders.QRCode(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		log.Printf("ERROR: Failed to write qr code: %v", err)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidOrder),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrUnknownDish):
		envelope.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrOrderNotFound):
		envelope.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicateOrder),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrStaleWrite):
		envelope.WriteError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("ERROR: %v", err)
		envelope.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
