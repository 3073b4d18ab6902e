package events

import (
	"time"

	"github.com/bean-harbor/shop-services/internal/shop/domain"
)

// PurchaseCompletedEvent is published after a purchase has been
// recorded and the stock decremented.
type PurchaseCompletedEvent struct {
	EventID       string                `json:"event_id"`
	PurchaseID    string                `json:"purchase_id"`
	CustomerEmail string                `json:"customer_email"`
	Items         []domain.PurchaseItem `json:"items"`
	TotalPrice    domain.Money          `json:"total_price"`
	Timestamp     time.Time             `json:"timestamp"`
}
