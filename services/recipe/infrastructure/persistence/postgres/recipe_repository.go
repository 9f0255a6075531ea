package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/fournil/pkg/database"
	recdomain "github.com/ghuser/fournil/services/recipe/domain"
	"github.com/ghuser/fournil/services/recipe/domain/models"
	"github.com/ghuser/fournil/services/recipe/domain/repositories"
)

const recipeColumns = `id, shop_id, name, description, yield_quantity, yield_unit,
	estimated_time_minutes, is_active, created_at, updated_at`

// RecipeRepository implements repositories.RecipeRepository against PostgreSQL.
// Lines live in recipe_lines with a position column so recipe order survives
// round trips.
type RecipeRepository struct {
	db *database.Database
}

func NewRecipeRepository(db *database.Database) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// Save persists a new Recipe and its lines in one transaction.
func (r *RecipeRepository) Save(ctx context.Context, rec *models.Recipe) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recipes (`+recipeColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			rec.ID, rec.ShopID, rec.Name, rec.Description, rec.YieldQuantity, rec.YieldUnit,
			int(rec.EstimatedTime.Minutes()), rec.IsActive, rec.CreatedAt, rec.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert recipe: %w", err)
		}
		return insertLines(ctx, tx, rec)
	})
}

// GetByID loads a recipe with its lines, scoped to the shop.
func (r *RecipeRepository) GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.Recipe, error) {
	row := r.db.DB().QueryRowContext(ctx, `
		SELECT `+recipeColumns+` FROM recipes
		WHERE id = $1 AND shop_id = $2`, id, shopID)
	rec, err := scanRecipe(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, recdomain.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("query recipe: %w", err)
	}
	if err := r.loadLines(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// FindByShop lists a shop's recipes matching the filter, ordered by name,
// lines included.
func (r *RecipeRepository) FindByShop(ctx context.Context, shopID uuid.UUID, f repositories.Filter) ([]*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE shop_id = $1`
	args := []any{shopID}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		query += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	if f.ActiveOnly {
		query += " AND is_active"
	}
	query += " ORDER BY name"

	rows, err := r.db.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []*models.Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, rec := range out {
		if err := r.loadLines(ctx, rec); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Update rewrites the recipe row and replaces its entire line set.
func (r *RecipeRepository) Update(ctx context.Context, rec *models.Recipe) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE recipes
			SET name = $3, description = $4, yield_quantity = $5, yield_unit = $6,
				estimated_time_minutes = $7, is_active = $8, updated_at = now()
			WHERE id = $1 AND shop_id = $2`,
			rec.ID, rec.ShopID, rec.Name, rec.Description, rec.YieldQuantity,
			rec.YieldUnit, int(rec.EstimatedTime.Minutes()), rec.IsActive,
		)
		if err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return recdomain.ErrRecipeNotFound
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM recipe_lines WHERE recipe_id = $1`, rec.ID); err != nil {
			return fmt.Errorf("clear recipe lines: %w", err)
		}
		return insertLines(ctx, tx, rec)
	})
}

// Delete removes a recipe; lines cascade. Production runs referencing the
// recipe block the delete (ON DELETE RESTRICT) and surface as a driver error.
func (r *RecipeRepository) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	res, err := r.db.DB().ExecContext(ctx,
		`DELETE FROM recipes WHERE id = $1 AND shop_id = $2`, id, shopID)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return recdomain.ErrRecipeNotFound
	}
	return nil
}

func (r *RecipeRepository) loadLines(ctx context.Context, rec *models.Recipe) error {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT id, ingredient_id, quantity, unit
		FROM recipe_lines WHERE recipe_id = $1
		ORDER BY position`, rec.ID)
	if err != nil {
		return fmt.Errorf("query recipe lines: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var l models.Line
		if err := rows.Scan(&l.ID, &l.IngredientID, &l.Quantity, &l.Unit); err != nil {
			return fmt.Errorf("scan recipe line: %w", err)
		}
		rec.Lines = append(rec.Lines, l)
	}
	return rows.Err()
}

func insertLines(ctx context.Context, tx *sql.Tx, rec *models.Recipe) error {
	for i, l := range rec.Lines {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO recipe_lines (id, recipe_id, ingredient_id, quantity, unit, position)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			l.ID, rec.ID, l.IngredientID, l.Quantity, l.Unit, i,
		); err != nil {
			return fmt.Errorf("insert recipe line: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*models.Recipe, error) {
	var rec models.Recipe
	var minutes int
	if err := row.Scan(
		&rec.ID, &rec.ShopID, &rec.Name, &rec.Description, &rec.YieldQuantity,
		&rec.YieldUnit, &minutes, &rec.IsActive, &rec.CreatedAt, &rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rec.EstimatedTime = time.Duration(minutes) * time.Minute
	return &rec, nil
}
