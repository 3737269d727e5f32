package domain

import "time"

const EventOrderPlaced = "order.placed"

// OrderPlacedEvent is published to the broker when a session submits its cart.
type OrderPlacedEvent struct {
	EventType string    `json:"event_type"`
	OrderID   string    `json:"order_id"`
	SessionID string    `json:"session_id"`
	Username  string    `json:"username,omitempty"`
	Items     []string  `json:"items"`
	PlacedAt  time.Time `json:"placed_at"`
}

func NewOrderPlacedEvent(sessionID, username string, o Order) OrderPlacedEvent {
	return OrderPlacedEvent{
		EventType: EventOrderPlaced,
		OrderID:   o.ID,
		SessionID: sessionID,
		Username:  username,
		Items:     o.Items,
		PlacedAt:  o.PlacedAt,
	}
}
