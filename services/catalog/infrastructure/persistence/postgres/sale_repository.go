package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/fournil/pkg/database"
	"github.com/ghuser/fournil/pkg/events"
	catdomain "github.com/ghuser/fournil/services/catalog/domain"
	domainevents "github.com/ghuser/fournil/services/catalog/domain/events"
	"github.com/ghuser/fournil/services/catalog/domain/models"
	"github.com/ghuser/fournil/services/catalog/domain/repositories"
)

// SaleRepository implements repositories.SaleRepository against PostgreSQL.
// Save publishes SaleRecordedEvent through the transactional outbox.
type SaleRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewSaleRepository returns a SaleRepository backed by the given pool and
// event bus. The bus may be nil (seed CLI); saves then skip publishing.
func NewSaleRepository(db *database.Database, bus *events.EventBus) *SaleRepository {
	return &SaleRepository{db: db, bus: bus}
}

// Save persists a sale and its items in one transaction.
func (r *SaleRepository) Save(ctx context.Context, s *models.Sale) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sales (id, shop_id, subtotal, vat_amount, total, payment_method, customer_name, note, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			s.ID, s.ShopID, s.Subtotal, s.VATAmount, s.Total, s.PaymentMethod, s.CustomerName, s.Note, s.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		for _, it := range s.Items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO sale_items (id, sale_id, product_id, product_name, unit_price, quantity, vat_rate, line_total)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				it.ID, s.ID, it.ProductID, it.ProductName, it.UnitPrice, it.Quantity, it.VATRate, it.LineTotal,
			); err != nil {
				return fmt.Errorf("insert sale item: %w", err)
			}
		}
		if r.bus != nil {
			if err := r.publishRecorded(tx, s); err != nil {
				return fmt.Errorf("publish sale recorded: %w", err)
			}
		}
		return nil
	})
}

func (r *SaleRepository) GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.Sale, error) {
	row := r.db.DB().QueryRowContext(ctx, `
		SELECT id, shop_id, subtotal, vat_amount, total, payment_method, customer_name, note, created_at
		FROM sales WHERE id = $1 AND shop_id = $2`, id, shopID)
	s, err := scanSale(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catdomain.ErrSaleNotFound
		}
		return nil, fmt.Errorf("query sale: %w", err)
	}
	if err := r.loadItems(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SaleRepository) FindByShop(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]*models.Sale, error) {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT id, shop_id, subtotal, vat_amount, total, payment_method, customer_name, note, created_at
		FROM sales
		WHERE shop_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at DESC`, shopID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []*models.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range out {
		if err := r.loadItems(ctx, s); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *SaleRepository) Summary(ctx context.Context, shopID uuid.UUID, from, to time.Time) (*repositories.DailySummary, error) {
	sum := &repositories.DailySummary{Date: from}
	err := r.db.DB().QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(subtotal), 0), COALESCE(SUM(vat_amount), 0), COALESCE(SUM(total), 0)
		FROM sales
		WHERE shop_id = $1 AND created_at >= $2 AND created_at < $3`,
		shopID, from, to,
	).Scan(&sum.SaleCount, &sum.Subtotal, &sum.VATAmount, &sum.Total)
	if err != nil {
		return nil, fmt.Errorf("sum sales: %w", err)
	}

	err = r.db.DB().QueryRowContext(ctx, `
		SELECT COALESCE(SUM(i.quantity), 0)
		FROM sale_items i JOIN sales s ON s.id = i.sale_id
		WHERE s.shop_id = $1 AND s.created_at >= $2 AND s.created_at < $3`,
		shopID, from, to,
	).Scan(&sum.ItemsSold)
	if err != nil {
		return nil, fmt.Errorf("count items sold: %w", err)
	}
	return sum, nil
}

func (r *SaleRepository) publishRecorded(tx *sql.Tx, s *models.Sale) error {
	itemCount := 0
	for _, it := range s.Items {
		itemCount += it.Quantity
	}
	event := domainevents.SaleRecordedEvent{
		EventID:       uuid.New(),
		Version:       1,
		SaleID:        s.ID,
		ShopID:        s.ShopID,
		Total:         s.Total,
		ItemCount:     itemCount,
		PaymentMethod: s.PaymentMethod,
		OccurredAt:    s.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", event.EventID.String())
	msg.Metadata.Set("event_version", "1")
	p, err := r.bus.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	return p.Publish(domainevents.TopicSaleRecorded, msg)
}

func (r *SaleRepository) loadItems(ctx context.Context, s *models.Sale) error {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT id, product_id, product_name, unit_price, quantity, vat_rate, line_total
		FROM sale_items WHERE sale_id = $1
		ORDER BY product_name`, s.ID)
	if err != nil {
		return fmt.Errorf("query sale items: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var it models.SaleItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.ProductName, &it.UnitPrice,
			&it.Quantity, &it.VATRate, &it.LineTotal); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, it)
	}
	return rows.Err()
}

func scanSale(row rowScanner) (*models.Sale, error) {
	var s models.Sale
	if err := row.Scan(&s.ID, &s.ShopID, &s.Subtotal, &s.VATAmount, &s.Total,
		&s.PaymentMethod, &s.CustomerName, &s.Note, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
