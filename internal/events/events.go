// Package events publishes cart mutation notifications.
package events

import (
	"context"
	"time"
)

// CartEventType names a cart mutation.
type CartEventType string

const (
	CartItemAdded   CartEventType = "item_added"
	CartItemMerged  CartEventType = "item_merged"
	CartItemUpdated CartEventType = "item_updated"
	CartItemRemoved CartEventType = "item_removed"
	CartCleared     CartEventType = "cleared"
)

// CartEvent is the payload published after a successful cart write.
type CartEvent struct {
	Type       CartEventType `json:"type"`
	ItemID     string        `json:"item_id,omitempty"`
	ProductID  string        `json:"product_id,omitempty"`
	OwnerEmail string        `json:"email"`
	Quantity   int           `json:"quantity,omitempty"`
	Deleted    int64         `json:"deleted,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// Publisher delivers cart events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	PublishCart(ctx context.Context, event CartEvent) error
	Close() error
}

// Noop discards every event.
type Noop struct{}

func (Noop) PublishCart(context.Context, CartEvent) error { return nil }
func (Noop) Close() error                                 { return nil }
