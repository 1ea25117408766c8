package domain

import "time"

// OrderLine is a completed order item as read for demand history.
type OrderLine struct {
	DishID    string
	DishName  string
	Timestamp time.Time
	Quantity  int
}

type Prediction struct {
	DishID          string   `json:"dish_id"`
	DishName        string   `json:"dish_name"`
	Period          string   `json:"period"`
	PredictedDemand int      `json:"predicted_demand"`
	Confidence      float64  `json:"confidence"`
	RecommendedPrep int      `json:"recommended_prep"`
	Factors         []string `json:"factors"`
	PredictionDate  string   `json:"prediction_date"`
}

type GenerationResult struct {
	PredictionsGenerated int    `json:"predictions_generated"`
	DishesProcessed      int    `json:"dishes_processed"`
	TargetDate           string `json:"target_date"`
	Message              string `json:"message"`
}

type RecordCounts struct {
	Dishes      int `json:"dishes"`
	Ingredients int `json:"ingredients"`
	Orders      int `json:"orders"`
}

type RecordsSynced struct {
	Dishes      int `json:"dishes"`
	Ingredients int `json:"ingredients"`
	Orders      int `json:"orders"`
	Analytics   int `json:"analytics"`
	Predictions int `json:"predictions"`
	Cleanup     int `json:"cleanup"`
}

type SyncResult struct {
	LastSync        time.Time     `json:"lastSync"`
	DurationSeconds float64       `json:"durationSeconds"`
	RecordsSynced   RecordsSynced `json:"recordsSynced"`
	Status          string        `json:"status"`
}

type SyncStatus struct {
	IsRunning           bool       `json:"isRunning"`
	LastSync            *time.Time `json:"lastSync"`
	SyncIntervalMinutes int        `json:"syncIntervalMinutes"`
	RecentErrors        []string   `json:"recentErrors"`
	TotalErrors         int        `json:"totalErrors"`
}

type SyncLogEntry struct {
	SyncType        string
	Status          string
	RecordsAffected int
	ErrorMessage    string
}
