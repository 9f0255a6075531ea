package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	catdomain "github.com/ghuser/fournil/services/catalog/domain"
	"github.com/ghuser/fournil/services/catalog/domain/models"
	"github.com/ghuser/fournil/services/catalog/domain/repositories"
	"github.com/ghuser/fournil/pkg/database"
)

const productColumns = `id, shop_id, name, category, price, vat_rate, recipe_id,
	is_active, created_at, updated_at`

// ProductRepository implements repositories.ProductRepository against PostgreSQL.
type ProductRepository struct {
	db *database.Database
}

func NewProductRepository(db *database.Database) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Save(ctx context.Context, p *models.Product) error {
	_, err := r.db.DB().ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.ShopID, p.Name, p.Category, p.Price, p.VATRate, p.RecipeID,
		p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.Product, error) {
	row := r.db.DB().QueryRowContext(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE id = $1 AND shop_id = $2`, id, shopID)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catdomain.ErrProductNotFound
		}
		return nil, fmt.Errorf("query product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) FindByShop(ctx context.Context, shopID uuid.UUID, f repositories.ProductFilter) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE shop_id = $1`
	args := []any{shopID}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		query += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if f.ActiveOnly {
		query += " AND is_active"
	}
	query += " ORDER BY name"

	rows, err := r.db.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	res, err := r.db.DB().ExecContext(ctx, `
		UPDATE products
		SET name = $3, category = $4, price = $5, vat_rate = $6, recipe_id = $7,
			is_active = $8, updated_at = now()
		WHERE id = $1 AND shop_id = $2`,
		p.ID, p.ShopID, p.Name, p.Category, p.Price, p.VATRate, p.RecipeID, p.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catdomain.ErrProductNotFound
	}
	return nil
}

// Delete removes a product. Sales referencing it block the delete
// (ON DELETE RESTRICT); shops deactivate products instead.
func (r *ProductRepository) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	res, err := r.db.DB().ExecContext(ctx,
		`DELETE FROM products WHERE id = $1 AND shop_id = $2`, id, shopID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catdomain.ErrProductNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	var recipeID uuid.NullUUID
	if err := row.Scan(
		&p.ID, &p.ShopID, &p.Name, &p.Category, &p.Price, &p.VATRate,
		&recipeID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if recipeID.Valid {
		p.RecipeID = &recipeID.UUID
	}
	return &p, nil
}
