package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"restaurant-pos/menu-svc/internal/domain"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

const dishColumns = `id, name, price, category, description, preparation_time, difficulty_level,
	is_active, version, created_at, updated_at`

const ingredientColumns = `id, name, unit, quantity_today, min_threshold, cost_per_unit,
	COALESCE(supplier, ''), version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDish(row rowScanner, d *domain.Dish) error {
	return row.Scan(&d.ID, &d.Name, &d.Price, &d.Category, &d.Description, &d.PreparationTime,
		&d.DifficultyLevel, &d.IsActive, &d.Version, &d.CreatedAt, &d.UpdatedAt)
}

func scanIngredient(row rowScanner, i *domain.Ingredient) error {
	return row.Scan(&i.ID, &i.Name, &i.Unit, &i.QuantityToday, &i.MinThreshold, &i.CostPerUnit,
		&i.Supplier, &i.Version, &i.CreatedAt, &i.UpdatedAt)
}

func (r *PostgresRepository) CreateDish(ctx context.Context, dish *domain.Dish) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO dishes (id, name, price, category, description, preparation_time, difficulty_level, is_active, version)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING created_at, updated_at`,
			dish.ID, dish.Name, dish.Price, dish.Category, dish.Description, dish.PreparationTime,
			dish.DifficultyLevel, dish.IsActive, dish.Version,
		).Scan(&dish.CreatedAt, &dish.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert dish: %w", err)
		}
		return insertDishIngredients(ctx, tx, dish)
	})
}

func (r *PostgresRepository) ListActiveDishes(ctx context.Context) ([]domain.Dish, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+dishColumns+` FROM dishes WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dishes []domain.Dish
	index := map[string]int{}
	for rows.Next() {
		var d domain.Dish
		if err := scanDish(rows, &d); err != nil {
			return nil, err
		}
		d.Ingredients = []domain.DishIngredient{}
		index[d.ID] = len(dishes)
		dishes = append(dishes, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(dishes) == 0 {
		return dishes, nil
	}

	ids := make([]string, 0, len(dishes))
	for _, d := range dishes {
		ids = append(ids, d.ID)
	}
	recipes, err := r.dishIngredients(ctx, ids)
	if err != nil {
		return nil, err
	}
	for dishID, items := range recipes {
		if i, ok := index[dishID]; ok {
			dishes[i].Ingredients = items
		}
	}
	return dishes, nil
}

func (r *PostgresRepository) GetDish(ctx context.Context, id string) (*domain.Dish, error) {
	var d domain.Dish
	err := scanDish(r.DB.QueryRowContext(ctx, `SELECT `+dishColumns+` FROM dishes WHERE id = $1`, id), &d)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	recipes, err := r.dishIngredients(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	d.Ingredients = recipes[id]
	if d.Ingredients == nil {
		d.Ingredients = []domain.DishIngredient{}
	}
	return &d, nil
}

// UpdateDish rewrites the dish and its recipe when the stored version still equals expectedVersion.
func (r *PostgresRepository) UpdateDish(ctx context.Context, dish *domain.Dish, expectedVersion int) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			UPDATE dishes
			SET name = $1, price = $2, category = $3, description = $4, preparation_time = $5,
				difficulty_level = $6, is_active = $7, version = version + 1, updated_at = CURRENT_TIMESTAMP
			WHERE id = $8 AND version = $9
			RETURNING version, updated_at`,
			dish.Name, dish.Price, dish.Category, dish.Description, dish.PreparationTime,
			dish.DifficultyLevel, dish.IsActive, dish.ID, expectedVersion,
		).Scan(&dish.Version, &dish.UpdatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrVersionConflict
		}
		if err != nil {
			return fmt.Errorf("failed to update dish: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM dish_ingredients WHERE dish_id = $1`, dish.ID); err != nil {
			return fmt.Errorf("failed to clear dish ingredients: %w", err)
		}
		return insertDishIngredients(ctx, tx, dish)
	})
}

func (r *PostgresRepository) DeactivateDish(ctx context.Context, id string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE dishes
		SET is_active = FALSE, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND is_active`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) CreateIngredient(ctx context.Context, ing *domain.Ingredient) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO ingredients (id, name, unit, quantity_today, min_threshold, cost_per_unit, supplier, version)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
		RETURNING created_at, updated_at`,
		ing.ID, ing.Name, ing.Unit, ing.QuantityToday, ing.MinThreshold, ing.CostPerUnit, ing.Supplier, ing.Version,
	).Scan(&ing.CreatedAt, &ing.UpdatedAt)
}

func (r *PostgresRepository) ListIngredients(ctx context.Context) ([]domain.Ingredient, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+ingredientColumns+` FROM ingredients ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ingredients []domain.Ingredient
	for rows.Next() {
		var i domain.Ingredient
		if err := scanIngredient(rows, &i); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, i)
	}
	return ingredients, rows.Err()
}

func (r *PostgresRepository) GetIngredient(ctx context.Context, id string) (*domain.Ingredient, error) {
	var i domain.Ingredient
	err := scanIngredient(r.DB.QueryRowContext(ctx, `SELECT `+ingredientColumns+` FROM ingredients WHERE id = $1`, id), &i)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// UpdateIngredient saves the ingredient and, when change is set, logs it in the same transaction.
func (r *PostgresRepository) UpdateIngredient(ctx context.Context, ing *domain.Ingredient, expectedVersion int, change *domain.InventoryTransaction) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			UPDATE ingredients
			SET name = $1, unit = $2, quantity_today = $3, min_threshold = $4, cost_per_unit = $5,
				supplier = NULLIF($6, ''), version = version + 1, updated_at = CURRENT_TIMESTAMP
			WHERE id = $7 AND version = $8
			RETURNING version, updated_at`,
			ing.Name, ing.Unit, ing.QuantityToday, ing.MinThreshold, ing.CostPerUnit, ing.Supplier,
			ing.ID, expectedVersion,
		).Scan(&ing.Version, &ing.UpdatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrVersionConflict
		}
		if err != nil {
			return fmt.Errorf("failed to update ingredient: %w", err)
		}

		if change == nil {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO inventory_transactions (ingredient_id, transaction_type, quantity_change, reference_id, notes)
			VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))`,
			change.IngredientID, string(change.Type), change.QuantityChange, change.ReferenceID, change.Notes,
		); err != nil {
			return fmt.Errorf("failed to log inventory transaction: %w", err)
		}
		return nil
	})
}

func (r *PostgresRepository) ExistingIngredientIDs(ctx context.Context, ids []string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id FROM ingredients WHERE id = ANY($1)`, pq.Array(ids))
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

func (r *PostgresRepository) dishIngredients(ctx context.Context, dishIDs []string) (map[string][]domain.DishIngredient, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT dish_id, ingredient_id, quantity, unit, sub_ingredient_data
		FROM dish_ingredients
		WHERE dish_id = ANY($1)
		ORDER BY dish_id, position`, pq.Array(dishIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := map[string][]domain.DishIngredient{}
	for rows.Next() {
		var (
			dishID string
			item   domain.DishIngredient
			sub    []byte
		)
		if err := rows.Scan(&dishID, &item.IngredientID, &item.Quantity, &item.Unit, &sub); err != nil {
			return nil, err
		}
		if len(sub) > 0 {
			item.SubIngredient = &domain.SubIngredient{}
			if err := json.Unmarshal(sub, item.SubIngredient); err != nil {
				return nil, fmt.Errorf("failed to decode sub-ingredient for dish %s: %w", dishID, err)
			}
		}
		recipes[dishID] = append(recipes[dishID], item)
	}
	return recipes, rows.Err()
}

func insertDishIngredients(ctx context.Context, tx *sql.Tx, dish *domain.Dish) error {
	for position, item := range dish.Ingredients {
		var sub interface{}
		if item.SubIngredient != nil {
			encoded, err := json.Marshal(item.SubIngredient)
			if err != nil {
				return fmt.Errorf("failed to encode sub-ingredient: %w", err)
			}
			sub = string(encoded)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO dish_ingredients (dish_id, ingredient_id, position, quantity, unit, sub_ingredient_data)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			dish.ID, item.IngredientID, position, item.Quantity, item.Unit, sub,
		); err != nil {
			return fmt.Errorf("failed to insert dish ingredient: %w", err)
		}
	}
	return nil
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
