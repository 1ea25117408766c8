package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"restaurant-pos/order-svc/internal/domain"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

const orderColumns = `id, subtotal, tax, total, status, payment_method, COALESCE(customer_id, ''),
	cashier_id, timestamp, version`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner, o *domain.Order) error {
	var status string
	if err := row.Scan(&o.ID, &o.Subtotal, &o.Tax, &o.Total, &status, &o.PaymentMethod, &o.CustomerID,
		&o.CashierID, &o.Timestamp, &o.Version); err != nil {
		return err
	}
	o.Status = domain.OrderStatus(status)
	return nil
}

// CreateOrder stores the order with its items and draws the recipe ingredients of every item
// from stock, logging one usage transaction per ingredient.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO orders (id, subtotal, tax, total, status, payment_method, customer_id, cashier_id, version)
			VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)
			RETURNING timestamp`,
			order.ID, order.Subtotal, order.Tax, order.Total, string(order.Status), order.PaymentMethod,
			order.CustomerID, order.CashierID, order.Version,
		).Scan(&order.Timestamp)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		for _, item := range order.Items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO order_items (order_id, dish_id, quantity, price, notes)
				VALUES ($1, $2, $3, $4, $5)`,
				order.ID, item.DishID, item.Quantity, item.Price, item.Notes,
			); err != nil {
				return fmt.Errorf("failed to insert order item: %w", err)
			}

			// Stock never goes below zero; the transaction log keeps the full usage.
			if _, err := tx.ExecContext(ctx, `
				UPDATE ingredients i
				SET quantity_today = GREATEST(i.quantity_today - u.amount, 0),
					version = i.version + 1, updated_at = CURRENT_TIMESTAMP
				FROM (
					SELECT ingredient_id, SUM(quantity) * $2 AS amount
					FROM dish_ingredients WHERE dish_id = $1 GROUP BY ingredient_id
				) u
				WHERE i.id = u.ingredient_id`,
				item.DishID, item.Quantity,
			); err != nil {
				return fmt.Errorf("failed to draw stock for dish %s: %w", item.DishID, err)
			}

			if _, err := tx.ExecContext(ctx, `
				INSERT INTO inventory_transactions (ingredient_id, transaction_type, quantity_change, reference_id, notes)
				SELECT ingredient_id, 'usage', -quantity * $2, $3, 'Order usage'
				FROM dish_ingredients WHERE dish_id = $1`,
				item.DishID, item.Quantity, order.ID,
			); err != nil {
				return fmt.Errorf("failed to log usage for dish %s: %w", item.DishID, err)
			}
		}
		return nil
	})
}

func (r *PostgresRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, "timestamp >= $"+strconv.Itoa(len(args)))
	}
	if filter.Until != nil {
		args = append(args, *filter.Until)
		conditions = append(conditions, "timestamp < $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	index := map[string]int{}
	for rows.Next() {
		var o domain.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		o.Items = []domain.OrderItem{}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	items, err := r.orderItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for orderID, list := range items {
		if i, ok := index[orderID]; ok {
			orders[i].Items = list
		}
	}
	return orders, nil
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := scanOrder(r.DB.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id), &o)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.orderItems(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	o.Items = items[id]
	if o.Items == nil {
		o.Items = []domain.OrderItem{}
	}
	return &o, nil
}

// UpdateOrderStatus sets the status when the stored version still equals expectedVersion.
func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, order *domain.Order, expectedVersion int) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE orders SET status = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version`,
		string(order.Status), order.ID, expectedVersion,
	).Scan(&order.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrVersionConflict
	}
	return err
}

func (r *PostgresRepository) ActiveDishIDs(ctx context.Context, ids []string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id FROM dishes WHERE is_active AND id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var existing []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing = append(existing, id)
	}
	return existing, rows.Err()
}

func (r *PostgresRepository) orderItems(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT oi.order_id, oi.dish_id, COALESCE(d.name, ''), oi.quantity, oi.price, oi.notes
		FROM order_items oi
		LEFT JOIN dishes d ON d.id = oi.dish_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.id`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := map[string][]domain.OrderItem{}
	for rows.Next() {
		var (
			orderID string
			item    domain.OrderItem
		)
		if err := rows.Scan(&orderID, &item.DishID, &item.DishName, &item.Quantity, &item.Price, &item.Notes); err != nil {
			return nil, err
		}
		items[orderID] = append(items[orderID], item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

