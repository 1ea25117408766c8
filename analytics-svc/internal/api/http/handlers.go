package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"restaurant-pos/analytics-svc/internal/aggregator"
	"restaurant-pos/analytics-svc/internal/service"
	"restaurant-pos/envelope"

	"github.com/gorilla/mux"
)

type Handler struct {
	Analytics   service.AnalyticsInterface
	Predictions service.PredictionInterface
	Sync        service.SyncInterface
}

func NewHandler(analytics service.AnalyticsInterface, predictions service.PredictionInterface, sync service.SyncInterface) *Handler {
	return &Handler{
		Analytics:   analytics,
		Predictions: predictions,
		Sync:        sync,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/analytics/daily-sales", h.getDailySales).Methods("GET")
	r.HandleFunc("/api/analytics/sales", h.getSales).Methods("GET")

	r.HandleFunc("/api/predictions", h.getPredictions).Methods("GET")
	r.HandleFunc("/api/predictions/generate", h.generatePredictions).Methods("POST")

	r.HandleFunc("/api/sync", h.runSync).Methods("POST")
	r.HandleFunc("/api/sync/status", h.getSyncStatus).Methods("GET")
	r.HandleFunc("/api/sync/interval", h.setSyncInterval).Methods("PUT")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	envelope.WriteData(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "analytics-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getDailySales(w http.ResponseWriter, r *http.Request) {
	daily, err := h.Analytics.DailySales(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, daily)
}

func (h *Handler) getSales(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sales, err := h.Analytics.Sales(r.Context(),
		firstNonEmpty(query.Get("startDate"), query.Get("start_date")),
		firstNonEmpty(query.Get("endDate"), query.Get("end_date")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, sales)
}

func (h *Handler) getPredictions(w http.ResponseWriter, r *http.Request) {
	predictions, err := h.Predictions.Predictions(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, predictions)
}

func (h *Handler) generatePredictions(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Date string `json:"date"`
	}
	// The body is optional.
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		envelope.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	result, err := h.Predictions.Generate(r.Context(), payload.Date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, result)
}

func (h *Handler) runSync(w http.ResponseWriter, r *http.Request) {
	result, err := h.Sync.Sync(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, result)
}

func (h *Handler) getSyncStatus(w http.ResponseWriter, r *http.Request) {
	envelope.WriteData(w, http.StatusOK, h.Sync.Status())
}

func (h *Handler) setSyncInterval(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Minutes int `json:"minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		envelope.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.Sync.SetInterval(payload.Minutes); err != nil {
		writeServiceError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, h.Sync.Status())
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingDate):
		envelope.WriteError(w, http.StatusBadRequest, "Date parameter is required")
	case errors.Is(err, aggregator.ErrInvalidDate),
		errors.Is(err, aggregator.ErrInvalidRange),
		errors.Is(err, aggregator.ErrRangeTooLarge),
		errors.Is(err, service.ErrInvalidInterval):
		envelope.WriteError(w, http.StatusBadRequest, err.Error())
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
