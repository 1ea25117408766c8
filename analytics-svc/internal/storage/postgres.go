package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"restaurant-pos/analytics-svc/internal/aggregator"
	"restaurant-pos/analytics-svc/internal/domain"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

// ListSales returns completed orders with from <= timestamp < until.
func (r *PostgresRepository) ListSales(ctx context.Context, from, until time.Time) ([]aggregator.Sale, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT timestamp, total, status
		FROM orders
		WHERE status = 'completed' AND timestamp >= $1 AND timestamp < $2`, from, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []aggregator.Sale
	for rows.Next() {
		var s aggregator.Sale
		if err := rows.Scan(&s.Timestamp, &s.Total, &s.Status); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// OrderLines returns the completed order items sold since the given instant.
func (r *PostgresRepository) OrderLines(ctx context.Context, since time.Time) ([]domain.OrderLine, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT oi.dish_id, d.name, o.timestamp, oi.quantity
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN dishes d ON d.id = oi.dish_id
		WHERE o.status = 'completed' AND o.timestamp >= $1
		ORDER BY o.timestamp`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.DishID, &l.DishName, &l.Timestamp, &l.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// SavePredictions upserts by (dish, date, period).
func (r *PostgresRepository) SavePredictions(ctx context.Context, predictions []domain.Prediction) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, p := range predictions {
		factors, err := json.Marshal(p.Factors)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to encode factors: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO predictions (dish_id, prediction_date, period, predicted_demand, confidence, recommended_prep, factors)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (dish_id, prediction_date, period) DO UPDATE
			SET predicted_demand = EXCLUDED.predicted_demand, confidence = EXCLUDED.confidence,
				recommended_prep = EXCLUDED.recommended_prep, factors = EXCLUDED.factors,
				created_at = CURRENT_TIMESTAMP`,
			p.DishID, p.PredictionDate, p.Period, p.PredictedDemand, p.Confidence, p.RecommendedPrep, string(factors),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to save prediction: %w", err)
		}
	}
	return tx.Commit()
}

func (r *PostgresRepository) ListPredictions(ctx context.Context, date string) ([]domain.Prediction, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT p.dish_id, d.name, p.period, p.predicted_demand, p.confidence, p.recommended_prep, p.factors,
			to_char(p.prediction_date, 'YYYY-MM-DD')
		FROM predictions p
		JOIN dishes d ON d.id = p.dish_id
		WHERE p.prediction_date = $1
		ORDER BY d.name, p.period`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var predictions []domain.Prediction
	for rows.Next() {
		var (
			p       domain.Prediction
			factors []byte
		)
		if err := rows.Scan(&p.DishID, &p.DishName, &p.Period, &p.PredictedDemand, &p.Confidence,
			&p.RecommendedPrep, &factors, &p.PredictionDate); err != nil {
			return nil, err
		}
		p.Factors = []string{}
		if len(factors) > 0 {
			if err := json.Unmarshal(factors, &p.Factors); err != nil {
				return nil, fmt.Errorf("failed to decode factors for dish %s: %w", p.DishID, err)
			}
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

func (r *PostgresRepository) CountRecords(ctx context.Context) (domain.RecordCounts, error) {
	var counts domain.RecordCounts
	err := r.DB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM dishes WHERE is_active),
			(SELECT COUNT(*) FROM ingredients),
			(SELECT COUNT(*) FROM orders)`,
	).Scan(&counts.Dishes, &counts.Ingredients, &counts.Orders)
	return counts, err
}

// Cleanup deletes predictions and sync log rows older than 30 days and inventory
// transactions older than 90 days, returning the number of rows removed.
func (r *PostgresRepository) Cleanup(ctx context.Context, now time.Time) (int, error) {
	statements := []struct {
		query  string
		cutoff time.Time
	}{
		{`DELETE FROM predictions WHERE prediction_date < $1`, now.AddDate(0, 0, -30)},
		{`DELETE FROM inventory_transactions WHERE timestamp < $1`, now.AddDate(0, 0, -90)},
		{`DELETE FROM sync_log WHERE timestamp < $1`, now.AddDate(0, 0, -30)},
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	removed := 0
	for _, stmt := range statements {
		res, err := tx.ExecContext(ctx, stmt.query, stmt.cutoff)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("failed to clean up: %w", err)
		}
		n, _ := res.RowsAffected()
		removed += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return removed, nil
}

func (r *PostgresRepository) LogSync(ctx context.Context, entry domain.SyncLogEntry) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO sync_log (sync_type, status, records_affected, error_message)
		VALUES ($1, $2, $3, NULLIF($4, ''))`,
		entry.SyncType, entry.Status, entry.RecordsAffected, entry.ErrorMessage)
	return err
}
