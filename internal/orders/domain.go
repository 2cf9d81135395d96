package orders

import (
	"time"

	"github.com/google/uuid"
)

// Order is an append-only purchase record. Its main consumer besides
// order history is review verification.
type Order struct {
	ID          uuid.UUID `json:"id"`
	UserID      string    `json:"user_id"`
	ProductID   int64     `json:"product_id"`
	Quantity    int       `json:"quantity"`
	PurchasedAt time.Time `json:"purchased_at"`
}
