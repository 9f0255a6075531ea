package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/fournil/pkg/database"
	"github.com/ghuser/fournil/pkg/events"
	invmodels "github.com/ghuser/fournil/services/inventory/domain/models"
	proddomain "github.com/ghuser/fournil/services/production/domain"
	domainevents "github.com/ghuser/fournil/services/production/domain/events"
	"github.com/ghuser/fournil/services/production/domain/models"
	"github.com/ghuser/fournil/services/production/domain/repositories"
	engine "github.com/ghuser/fournil/services/production/domain/services"
	recmodels "github.com/ghuser/fournil/services/recipe/domain/models"
)

const runColumns = `r.id, r.shop_id, r.recipe_id, rc.name, r.quantity, r.status,
	r.planned_cost, r.actual_cost, r.notes, r.scheduled_for, r.completed_at,
	r.created_at, r.updated_at`

// RunRepository implements repositories.RunRepository against PostgreSQL.
// Complete runs the whole deduction inside one transaction with the run and
// every affected ingredient row locked, and publishes RunCompletedEvent
// through the transactional outbox.
type RunRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewRunRepository returns a RunRepository backed by the given pool and event
// bus. The bus may be nil (seed CLI); completions then skip publishing.
func NewRunRepository(db *database.Database, bus *events.EventBus) *RunRepository {
	return &RunRepository{db: db, bus: bus}
}

// Save persists a new planned run.
func (r *RunRepository) Save(ctx context.Context, run *models.ProductionRun) error {
	_, err := r.db.DB().ExecContext(ctx, `
		INSERT INTO production_runs (id, shop_id, recipe_id, quantity, status,
			planned_cost, actual_cost, notes, scheduled_for, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		run.ID, run.ShopID, run.RecipeID, run.Quantity, run.Status,
		run.PlannedCost, run.ActualCost, run.Notes, run.ScheduledFor,
		run.CompletedAt, run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert production run: %w", err)
	}
	return nil
}

// GetByID loads a run scoped to the shop, with the recipe name joined in.
func (r *RunRepository) GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.ProductionRun, error) {
	row := r.db.DB().QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM production_runs r JOIN recipes rc ON rc.id = r.recipe_id
		WHERE r.id = $1 AND r.shop_id = $2`, id, shopID)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, proddomain.ErrRunNotFound
		}
		return nil, fmt.Errorf("query production run: %w", err)
	}
	return run, nil
}

// FindByShop lists a shop's runs matching the filter, newest first.
func (r *RunRepository) FindByShop(ctx context.Context, shopID uuid.UUID, f repositories.Filter) ([]*models.ProductionRun, error) {
	query := `SELECT ` + runColumns + `
		FROM production_runs r JOIN recipes rc ON rc.id = r.recipe_id
		WHERE r.shop_id = $1`
	args := []any{shopID}

	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND r.status = $%d", len(args))
	}
	if f.RecipeID != uuid.Nil {
		args = append(args, f.RecipeID)
		query += fmt.Sprintf(" AND r.recipe_id = $%d", len(args))
	}
	query += " ORDER BY r.created_at DESC"

	return r.queryRuns(ctx, query, args...)
}

// CompletedBetween lists runs completed in [from, to), newest first.
func (r *RunRepository) CompletedBetween(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]*models.ProductionRun, error) {
	return r.queryRuns(ctx, `
		SELECT `+runColumns+`
		FROM production_runs r JOIN recipes rc ON rc.id = r.recipe_id
		WHERE r.shop_id = $1 AND r.completed_at >= $2 AND r.completed_at < $3
		ORDER BY r.completed_at DESC`, shopID, from, to)
}

// Update persists edits to a planned run. Completed runs are immutable.
func (r *RunRepository) Update(ctx context.Context, run *models.ProductionRun) error {
	res, err := r.db.DB().ExecContext(ctx, `
		UPDATE production_runs
		SET quantity = $3, planned_cost = $4, notes = $5, scheduled_for = $6, updated_at = now()
		WHERE id = $1 AND shop_id = $2 AND status = $7`,
		run.ID, run.ShopID, run.Quantity, run.PlannedCost, run.Notes,
		run.ScheduledFor, models.RunPlanned,
	)
	if err != nil {
		return fmt.Errorf("update production run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.notFoundOrImmutable(ctx, run.ShopID, run.ID)
	}
	return nil
}

// Delete removes a planned run.
func (r *RunRepository) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	res, err := r.db.DB().ExecContext(ctx, `
		DELETE FROM production_runs
		WHERE id = $1 AND shop_id = $2 AND status = $3`,
		id, shopID, models.RunPlanned)
	if err != nil {
		return fmt.Errorf("delete production run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.notFoundOrImmutable(ctx, shopID, id)
	}
	return nil
}

// Complete deducts the run's requirements and marks it completed in one
// transaction. The run row and every ingredient row are locked FOR UPDATE so
// concurrent completions serialize; the loser then sees status=completed and
// fails with ErrRunAlreadyCompleted. Nothing is written when stock is short.
func (r *RunRepository) Complete(ctx context.Context, shopID, id uuid.UUID) (*models.ProductionRun, error) {
	var completed *models.ProductionRun
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT id, shop_id, recipe_id, quantity, status, planned_cost,
				actual_cost, notes, scheduled_for, completed_at, created_at, updated_at
			FROM production_runs
			WHERE id = $1 AND shop_id = $2
			FOR UPDATE`, id, shopID)
		run, err := scanRunBare(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return proddomain.ErrRunNotFound
			}
			return fmt.Errorf("lock production run: %w", err)
		}

		recipe, err := loadRecipe(ctx, tx, shopID, run.RecipeID)
		if err != nil {
			return err
		}
		run.RecipeName = recipe.Name

		ingredients, err := lockIngredients(ctx, tx, shopID, recipe)
		if err != nil {
			return err
		}

		plan, err := engine.BuildCompletion(run, recipe, ingredients)
		if err != nil {
			return err
		}

		for _, d := range plan.Deductions {
			if _, err := tx.ExecContext(ctx, `
				UPDATE ingredients
				SET quantity_on_hand = quantity_on_hand - $3, updated_at = now()
				WHERE id = $1 AND shop_id = $2`,
				d.IngredientID, shopID, d.BaseQuantity,
			); err != nil {
				return fmt.Errorf("deduct ingredient: %w", err)
			}
		}

		now := time.Now().UTC()
		run.MarkCompleted(plan.ActualCost, now)
		if _, err := tx.ExecContext(ctx, `
			UPDATE production_runs
			SET status = $3, actual_cost = $4, completed_at = $5, updated_at = $5
			WHERE id = $1 AND shop_id = $2`,
			run.ID, shopID, run.Status, run.ActualCost, now,
		); err != nil {
			return fmt.Errorf("mark run completed: %w", err)
		}

		if r.bus != nil {
			if err := r.publishCompleted(tx, run); err != nil {
				return fmt.Errorf("publish run completed: %w", err)
			}
		}
		completed = run
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

func (r *RunRepository) notFoundOrImmutable(ctx context.Context, shopID, id uuid.UUID) error {
	run, err := r.GetByID(ctx, shopID, id)
	if err != nil {
		return err
	}
	if run.IsCompleted() {
		return proddomain.ErrCompletedRunImmutable
	}
	return proddomain.ErrRunNotFound
}

func (r *RunRepository) publishCompleted(tx *sql.Tx, run *models.ProductionRun) error {
	event := domainevents.RunCompletedEvent{
		EventID:    uuid.New(),
		Version:    1,
		RunID:      run.ID,
		ShopID:     run.ShopID,
		RecipeID:   run.RecipeID,
		RecipeName: run.RecipeName,
		Quantity:   run.Quantity,
		ActualCost: run.ActualCost,
		OccurredAt: *run.CompletedAt,
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
	return p.Publish(domainevents.TopicRunCompleted, msg)
}

func loadRecipe(ctx context.Context, tx *sql.Tx, shopID, recipeID uuid.UUID) (*recmodels.Recipe, error) {
	var rec recmodels.Recipe
	err := tx.QueryRowContext(ctx, `
		SELECT id, shop_id, name, yield_quantity, yield_unit
		FROM recipes WHERE id = $1 AND shop_id = $2`, recipeID, shopID).
		Scan(&rec.ID, &rec.ShopID, &rec.Name, &rec.YieldQuantity, &rec.YieldUnit)
	if err != nil {
		return nil, fmt.Errorf("load recipe: %w", err)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT id, ingredient_id, quantity, unit
		FROM recipe_lines WHERE recipe_id = $1
		ORDER BY position`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("load recipe lines: %w", err)
	}
	defer rows.Close() //nolint:errcheck
	for rows.Next() {
		var l recmodels.Line
		if err := rows.Scan(&l.ID, &l.IngredientID, &l.Quantity, &l.Unit); err != nil {
			return nil, fmt.Errorf("scan recipe line: %w", err)
		}
		rec.Lines = append(rec.Lines, l)
	}
	return &rec, rows.Err()
}

// lockIngredients locks every ingredient the recipe references. Ordering by
// id keeps lock acquisition deterministic across concurrent completions.
func lockIngredients(ctx context.Context, tx *sql.Tx, shopID uuid.UUID, rec *recmodels.Recipe) (map[uuid.UUID]*invmodels.Ingredient, error) {
	ids := make([]uuid.UUID, 0, len(rec.Lines))
	seen := make(map[uuid.UUID]struct{}, len(rec.Lines))
	for _, l := range rec.Lines {
		if _, ok := seen[l.IngredientID]; !ok {
			seen[l.IngredientID] = struct{}{}
			ids = append(ids, l.IngredientID)
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	out := make(map[uuid.UUID]*invmodels.Ingredient, len(ids))
	for _, ingID := range ids {
		var ing invmodels.Ingredient
		err := tx.QueryRowContext(ctx, `
			SELECT id, shop_id, name, base_unit, quantity_on_hand, cost_per_base_unit
			FROM ingredients
			WHERE id = $1 AND shop_id = $2
			FOR UPDATE`, ingID, shopID).
			Scan(&ing.ID, &ing.ShopID, &ing.Name, &ing.BaseUnit,
				&ing.QuantityOnHand, &ing.CostPerBaseUnit)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue // deleted ingredient, line contributes nothing
			}
			return nil, fmt.Errorf("lock ingredient: %w", err)
		}
		out[ing.ID] = &ing
	}
	return out, nil
}

func (r *RunRepository) queryRuns(ctx context.Context, query string, args ...any) ([]*models.ProductionRun, error) {
	rows, err := r.db.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query production runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []*models.ProductionRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan production run: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.ProductionRun, error) {
	var run models.ProductionRun
	var scheduled, completed sql.NullTime
	if err := row.Scan(
		&run.ID, &run.ShopID, &run.RecipeID, &run.RecipeName, &run.Quantity,
		&run.Status, &run.PlannedCost, &run.ActualCost, &run.Notes,
		&scheduled, &completed, &run.CreatedAt, &run.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if scheduled.Valid {
		run.ScheduledFor = &scheduled.Time
	}
	if completed.Valid {
		run.CompletedAt = &completed.Time
	}
	return &run, nil
}

func scanRunBare(row rowScanner) (*models.ProductionRun, error) {
	var run models.ProductionRun
	var scheduled, completed sql.NullTime
	if err := row.Scan(
		&run.ID, &run.ShopID, &run.RecipeID, &run.Quantity, &run.Status,
		&run.PlannedCost, &run.ActualCost, &run.Notes,
		&scheduled, &completed, &run.CreatedAt, &run.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if scheduled.Valid {
		run.ScheduledFor = &scheduled.Time
	}
	if completed.Valid {
		run.CompletedAt = &completed.Time
	}
	return &run, nil
}
