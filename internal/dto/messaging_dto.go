package dto

import "github.com/google/uuid"

// OrderConfirmationMessage is the watermill payload queued after a payment
// is applied, one per recipient: the buyer gets the order total, each
// vendor gets their sub-order's share.
type OrderConfirmationMessage struct {
	OrderId        uuid.UUID `json:"order_id"`
	Reference      string    `json:"reference"`
	RecipientEmail string    `json:"recipient_email"`
	GrossAmount    int64     `json:"gross_amount"`
}
