package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/fournil/pkg/database"
	wastedomain "github.com/ghuser/fournil/services/waste/domain"
	"github.com/ghuser/fournil/services/waste/domain/models"
	"github.com/ghuser/fournil/services/waste/domain/repositories"
)

const wasteColumns = `id, shop_id, ingredient_id, product_id, item_name, quantity, unit,
	category, cost, notes, logged_at, created_at`

// WasteRepository implements repositories.WasteRepository against PostgreSQL.
type WasteRepository struct {
	db *database.Database
}

func NewWasteRepository(db *database.Database) *WasteRepository {
	return &WasteRepository{db: db}
}

func (r *WasteRepository) Save(ctx context.Context, w *models.WasteLog) error {
	_, err := r.db.DB().ExecContext(ctx, `
		INSERT INTO waste_logs (`+wasteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		w.ID, w.ShopID, w.IngredientID, w.ProductID, w.ItemName, w.Quantity, w.Unit,
		w.Category, w.Cost, w.Notes, w.LoggedAt, w.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert waste log: %w", err)
	}
	return nil
}

func (r *WasteRepository) GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.WasteLog, error) {
	row := r.db.DB().QueryRowContext(ctx, `
		SELECT `+wasteColumns+` FROM waste_logs
		WHERE id = $1 AND shop_id = $2`, id, shopID)
	w, err := scanWaste(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wastedomain.ErrWasteLogNotFound
		}
		return nil, fmt.Errorf("query waste log: %w", err)
	}
	return w, nil
}

func (r *WasteRepository) FindByShop(ctx context.Context, shopID uuid.UUID, f repositories.Filter) ([]*models.WasteLog, error) {
	query := `SELECT ` + wasteColumns + ` FROM waste_logs WHERE shop_id = $1`
	args := []any{shopID}

	if f.Category != "" {
		args = append(args, f.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		query += fmt.Sprintf(" AND logged_at >= $%d", len(args))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		query += fmt.Sprintf(" AND logged_at < $%d", len(args))
	}
	query += " ORDER BY logged_at DESC"

	rows, err := r.db.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query waste logs: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []*models.WasteLog
	for rows.Next() {
		w, err := scanWaste(rows)
		if err != nil {
			return nil, fmt.Errorf("scan waste log: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *WasteRepository) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	res, err := r.db.DB().ExecContext(ctx,
		`DELETE FROM waste_logs WHERE id = $1 AND shop_id = $2`, id, shopID)
	if err != nil {
		return fmt.Errorf("delete waste log: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return wastedomain.ErrWasteLogNotFound
	}
	return nil
}

func (r *WasteRepository) CostByCategory(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]repositories.CategoryTotal, error) {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT category, COUNT(*), COALESCE(SUM(cost), 0)
		FROM waste_logs
		WHERE shop_id = $1 AND logged_at >= $2 AND logged_at < $3
		GROUP BY category
		ORDER BY category`, shopID, from, to)
	if err != nil {
		return nil, fmt.Errorf("sum waste cost: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []repositories.CategoryTotal
	for rows.Next() {
		var t repositories.CategoryTotal
		if err := rows.Scan(&t.Category, &t.Count, &t.Cost); err != nil {
			return nil, fmt.Errorf("scan waste total: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWaste(row rowScanner) (*models.WasteLog, error) {
	var w models.WasteLog
	var ingredientID, productID uuid.NullUUID
	if err := row.Scan(
		&w.ID, &w.ShopID, &ingredientID, &productID, &w.ItemName, &w.Quantity, &w.Unit,
		&w.Category, &w.Cost, &w.Notes, &w.LoggedAt, &w.CreatedAt,
	); err != nil {
		return nil, err
	}
	if ingredientID.Valid {
		w.IngredientID = &ingredientID.UUID
	}
	if productID.Valid {
		w.ProductID = &productID.UUID
	}
	return &w, nil
}
