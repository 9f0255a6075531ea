package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/fournil/pkg/database"
	invdomain "github.com/ghuser/fournil/services/inventory/domain"
	"github.com/ghuser/fournil/services/inventory/domain/models"
	"github.com/ghuser/fournil/services/inventory/domain/repositories"
	domainsvcs "github.com/ghuser/fournil/services/inventory/domain/services"
)

const ingredientColumns = `id, shop_id, name, category, base_unit, quantity_on_hand,
	cost_per_base_unit, min_stock_level, expiry_date, notes, created_at, updated_at`

// IngredientRepository implements repositories.IngredientRepository against PostgreSQL.
type IngredientRepository struct {
	db *database.Database
}

// NewIngredientRepository returns an IngredientRepository backed by the given pool.
func NewIngredientRepository(db *database.Database) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// Save persists a new Ingredient.
func (r *IngredientRepository) Save(ctx context.Context, ing *models.Ingredient) error {
	_, err := r.db.DB().ExecContext(ctx, `
		INSERT INTO ingredients (`+ingredientColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		ing.ID, ing.ShopID, ing.Name, ing.Category, ing.BaseUnit, ing.QuantityOnHand,
		ing.CostPerBaseUnit, ing.MinStockLevel, ing.ExpiryDate, ing.Notes,
		ing.CreatedAt, ing.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ingredient: %w", err)
	}
	return nil
}

// GetByID retrieves an Ingredient scoped to the given shop.
// Returns ErrIngredientNotFound if absent or owned by another shop.
func (r *IngredientRepository) GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.Ingredient, error) {
	row := r.db.DB().QueryRowContext(ctx, `
		SELECT `+ingredientColumns+` FROM ingredients
		WHERE id = $1 AND shop_id = $2`, id, shopID)
	ing, err := scanIngredient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invdomain.ErrIngredientNotFound
		}
		return nil, fmt.Errorf("query ingredient: %w", err)
	}
	return ing, nil
}

// FindByShop lists a shop's ingredients matching the filter, ordered by name.
func (r *IngredientRepository) FindByShop(ctx context.Context, shopID uuid.UUID, f repositories.Filter) ([]*models.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE shop_id = $1`
	args := []any{shopID}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		query += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	switch f.Status {
	case models.StockOut:
		query += " AND quantity_on_hand <= 0"
	case models.StockLow:
		query += " AND quantity_on_hand <= min_stock_level AND quantity_on_hand > 0"
	case models.StockOK:
		query += " AND quantity_on_hand > min_stock_level"
	}
	query += " ORDER BY name"

	return r.queryIngredients(ctx, query, args...)
}

// LowStock lists ingredients at or below minimum stock level, ascending by
// quantity-on-hand. Out-of-stock ingredients are included.
func (r *IngredientRepository) LowStock(ctx context.Context, shopID uuid.UUID) ([]*models.Ingredient, error) {
	return r.queryIngredients(ctx, `
		SELECT `+ingredientColumns+` FROM ingredients
		WHERE shop_id = $1 AND quantity_on_hand <= min_stock_level
		ORDER BY quantity_on_hand ASC`, shopID)
}

// Update persists changes to an existing Ingredient.
func (r *IngredientRepository) Update(ctx context.Context, ing *models.Ingredient) error {
	res, err := r.db.DB().ExecContext(ctx, `
		UPDATE ingredients
		SET name = $3, category = $4, base_unit = $5, quantity_on_hand = $6,
			cost_per_base_unit = $7, min_stock_level = $8, expiry_date = $9,
			notes = $10, updated_at = now()
		WHERE id = $1 AND shop_id = $2`,
		ing.ID, ing.ShopID, ing.Name, ing.Category, ing.BaseUnit, ing.QuantityOnHand,
		ing.CostPerBaseUnit, ing.MinStockLevel, ing.ExpiryDate, ing.Notes,
	)
	if err != nil {
		return fmt.Errorf("update ingredient: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return invdomain.ErrIngredientNotFound
	}
	return nil
}

// Delete removes an ingredient; its recipe lines go with it (ON DELETE CASCADE).
func (r *IngredientRepository) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	res, err := r.db.DB().ExecContext(ctx,
		`DELETE FROM ingredients WHERE id = $1 AND shop_id = $2`, id, shopID)
	if err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return invdomain.ErrIngredientNotFound
	}
	return nil
}

// DeductStock subtracts a converted quantity inside one transaction, locking
// the row so concurrent deductions serialize. The domain service decides
// whether the deduction overdraws; nothing is written on failure.
func (r *IngredientRepository) DeductStock(ctx context.Context, shopID, id uuid.UUID, qty float64, unit string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT `+ingredientColumns+` FROM ingredients
			WHERE id = $1 AND shop_id = $2
			FOR UPDATE`, id, shopID)
		ing, err := scanIngredient(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return invdomain.ErrIngredientNotFound
			}
			return fmt.Errorf("lock ingredient: %w", err)
		}

		if err := domainsvcs.ApplyDeduction(ing, qty, unit); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE ingredients SET quantity_on_hand = $3, updated_at = now()
			WHERE id = $1 AND shop_id = $2`,
			ing.ID, ing.ShopID, ing.QuantityOnHand,
		); err != nil {
			return fmt.Errorf("apply deduction: %w", err)
		}
		return nil
	})
}

func (r *IngredientRepository) RestoreStock(ctx context.Context, shopID, id uuid.UUID, qty float64, unit string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT `+ingredientColumns+` FROM ingredients
			WHERE id = $1 AND shop_id = $2
			FOR UPDATE`, id, shopID)
		ing, err := scanIngredient(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return invdomain.ErrIngredientNotFound
			}
			return fmt.Errorf("lock ingredient: %w", err)
		}

		domainsvcs.Restock(ing, qty, unit)

		if _, err := tx.ExecContext(ctx, `
			UPDATE ingredients SET quantity_on_hand = $3, updated_at = now()
			WHERE id = $1 AND shop_id = $2`,
			ing.ID, ing.ShopID, ing.QuantityOnHand,
		); err != nil {
			return fmt.Errorf("apply restock: %w", err)
		}
		return nil
	})
}

// StockValue sums the shop's on-hand stock value.
func (r *IngredientRepository) StockValue(ctx context.Context, shopID uuid.UUID) (float64, error) {
	var value float64
	err := r.db.DB().QueryRowContext(ctx, `
		SELECT COALESCE(SUM(quantity_on_hand * cost_per_base_unit), 0)
		FROM ingredients WHERE shop_id = $1`, shopID).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("sum stock value: %w", err)
	}
	return value, nil
}

func (r *IngredientRepository) queryIngredients(ctx context.Context, query string, args ...any) ([]*models.Ingredient, error) {
	rows, err := r.db.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ingredients: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []*models.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIngredient(row rowScanner) (*models.Ingredient, error) {
	var ing models.Ingredient
	var expiry sql.NullTime
	if err := row.Scan(
		&ing.ID, &ing.ShopID, &ing.Name, &ing.Category, &ing.BaseUnit,
		&ing.QuantityOnHand, &ing.CostPerBaseUnit, &ing.MinStockLevel,
		&expiry, &ing.Notes, &ing.CreatedAt, &ing.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if expiry.Valid {
		ing.ExpiryDate = &expiry.Time
	}
	return &ing, nil
}
