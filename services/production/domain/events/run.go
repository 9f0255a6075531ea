package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicRunCompleted is the Watermill topic published when a production run
// completes and stock has been deducted.
const TopicRunCompleted = "production.run.completed"

// RunCompletedEvent is published in the same transaction that deducts stock,
// so consumers only ever see completions that committed. The worker uses it
// to raise low-stock alerts.
type RunCompletedEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	RunID      uuid.UUID `json:"run_id"`
	ShopID     uuid.UUID `json:"shop_id"`
	RecipeID   uuid.UUID `json:"recipe_id"`
	RecipeName string    `json:"recipe_name"`
	Quantity   float64   `json:"quantity"`
	ActualCost float64   `json:"actual_cost"`
	OccurredAt time.Time `json:"occurred_at"`
}
