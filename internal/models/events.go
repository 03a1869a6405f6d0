package models

import "time"

// NATS Event Types
const (
	EventTicketPurchased = "ticket.purchased"
	EventTicketUsed      = "ticket.used"
	EventEventCreated    = "event.created"
	EventEventCancelled  = "event.cancelled"
	EventPromoCodeAdded  = "promo.added"
)

// TicketPurchasedEvent is published after a purchase has been committed
type TicketPurchasedEvent struct {
	TicketID     string    `json:"ticket_id"`
	EventID      string    `json:"event_id"`
	TicketType   string    `json:"ticket_type"`
	Section      string    `json:"section"`
	Buyer        string    `json:"buyer"`
	FinalPrice   int64     `json:"final_price"`
	PlatformFee  int64     `json:"platform_fee"`
	Proceeds     int64     `json:"proceeds"`
	PromoCode    string    `json:"promo_code,omitempty"`
	NFTDiscount  bool      `json:"nft_discount"`
	CurrentSales int       `json:"current_sales"`
	Timestamp    time.Time `json:"timestamp"`
}

// TicketUsedEvent is published when a ticket is redeemed at the entrance
type TicketUsedEvent struct {
	TicketID   string    `json:"ticket_id"`
	EventID    string    `json:"event_id"`
	Owner      string    `json:"owner"`
	TicketType string    `json:"ticket_type"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventCreatedEvent represents an event publication
type EventCreatedEvent struct {
	EventID   string    `json:"event_id"`
	Organizer string    `json:"organizer"`
	Timestamp time.Time `json:"timestamp"`
}

// EventCancelledEvent represents an event cancellation
type EventCancelledEvent struct {
	EventID   string    `json:"event_id"`
	Organizer string    `json:"organizer"`
	Timestamp time.Time `json:"timestamp"`
}

// PromoCodeAddedEvent represents a promo code being attached to an event
type PromoCodeAddedEvent struct {
	EventID   string    `json:"event_id"`
	Code      string    `json:"code"`
	MaxUses   int       `json:"max_uses"`
	Timestamp time.Time `json:"timestamp"`
}
