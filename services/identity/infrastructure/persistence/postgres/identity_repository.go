package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/fournil/pkg/database"
	iddomain "github.com/ghuser/fournil/services/identity/domain"
	"github.com/ghuser/fournil/services/identity/domain/models"
)

// ShopRepository implements repositories.ShopRepository against PostgreSQL.
type ShopRepository struct {
	db *database.Database
}

func NewShopRepository(db *database.Database) *ShopRepository {
	return &ShopRepository{db: db}
}

func (r *ShopRepository) Save(ctx context.Context, s *models.Shop) error {
	_, err := r.db.DB().ExecContext(ctx, `
		INSERT INTO shops (id, name, invite_code, currency, default_vat_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Name, s.InviteCode, s.Currency, s.DefaultVATRate, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert shop: %w", err)
	}
	return nil
}

func (r *ShopRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *ShopRepository) GetByInviteCode(ctx context.Context, code string) (*models.Shop, error) {
	s, err := r.getBy(ctx, "invite_code = $1", code)
	if errors.Is(err, iddomain.ErrShopNotFound) {
		return nil, iddomain.ErrInvalidInviteCode
	}
	return s, err
}

func (r *ShopRepository) getBy(ctx context.Context, where string, arg any) (*models.Shop, error) {
	var s models.Shop
	err := r.db.DB().QueryRowContext(ctx, `
		SELECT id, name, invite_code, currency, default_vat_rate, created_at, updated_at
		FROM shops WHERE `+where, arg).
		Scan(&s.ID, &s.Name, &s.InviteCode, &s.Currency, &s.DefaultVATRate, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, iddomain.ErrShopNotFound
		}
		return nil, fmt.Errorf("query shop: %w", err)
	}
	return &s, nil
}

func (r *ShopRepository) Update(ctx context.Context, s *models.Shop) error {
	res, err := r.db.DB().ExecContext(ctx, `
		UPDATE shops
		SET name = $2, invite_code = $3, currency = $4, default_vat_rate = $5, updated_at = now()
		WHERE id = $1`,
		s.ID, s.Name, s.InviteCode, s.Currency, s.DefaultVATRate,
	)
	if err != nil {
		return fmt.Errorf("update shop: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return iddomain.ErrShopNotFound
	}
	return nil
}

func (r *ShopRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.DB().ExecContext(ctx, `DELETE FROM shops WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shop: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return iddomain.ErrShopNotFound
	}
	return nil
}

// UserRepository implements repositories.UserRepository against PostgreSQL.
type UserRepository struct {
	db *database.Database
}

func NewUserRepository(db *database.Database) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, shop_id, email, name, password_hash, role, created_at, updated_at`

func (r *UserRepository) Save(ctx context.Context, u *models.User) error {
	_, err := r.db.DB().ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.ShopID, u.Email, u.Name, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return iddomain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.User, error) {
	row := r.db.DB().QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE id = $1 AND shop_id = $2`, id, shopID)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.DB().QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepository) FindByShop(ctx context.Context, shopID uuid.UUID) ([]*models.User, error) {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE shop_id = $1 ORDER BY created_at`, shopID)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	res, err := r.db.DB().ExecContext(ctx,
		`DELETE FROM users WHERE id = $1 AND shop_id = $2`, id, shopID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return iddomain.ErrUserNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.ShopID, &u.Email, &u.Name, &u.PasswordHash,
		&u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, iddomain.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}
