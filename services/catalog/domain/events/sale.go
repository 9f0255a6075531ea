package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicSaleRecorded is the Watermill topic published when a checkout commits.
const TopicSaleRecorded = "catalog.sale.recorded"

// SaleRecordedEvent is published in the same transaction that inserts the
// sale, so consumers only ever see sales that committed.
type SaleRecordedEvent struct {
	EventID       uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version       int       `json:"version"`  // Schema version; increment on breaking changes
	SaleID        uuid.UUID `json:"sale_id"`
	ShopID        uuid.UUID `json:"shop_id"`
	Total         float64   `json:"total"`
	ItemCount     int       `json:"item_count"`
	PaymentMethod string    `json:"payment_method"`
	OccurredAt    time.Time `json:"occurred_at"`
}
