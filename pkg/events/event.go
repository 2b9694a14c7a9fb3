package events

import "time"

// Marketplace lifecycle event codes carried on the bus.
const (
	TypeOrderConfirmed        = "ORDER_CONFIRMED"
	TypeBookingCreated        = "BOOKING_CREATED"
	TypeSubscriptionSuspended = "SUBSCRIPTION_SUSPENDED"
	TypeSubscriptionDeleted   = "SUBSCRIPTION_DELETED"
	TypeSubscriptionRenewed   = "SUBSCRIPTION_RENEWED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ORDER_CONFIRMED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation most publishers use.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
