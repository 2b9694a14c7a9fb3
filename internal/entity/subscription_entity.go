package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusSuspended SubscriptionStatus = "suspended"
	SubscriptionStatusDeleted   SubscriptionStatus = "deleted"
)

// CanTransitionTo rejects illegal lifecycle moves. Deleted is terminal:
// a deleted subscription never comes back as active or suspended.
func (s SubscriptionStatus) CanTransitionTo(to SubscriptionStatus) bool {
	if s == SubscriptionStatusDeleted {
		return false
	}
	switch to {
	case SubscriptionStatusActive, SubscriptionStatusSuspended, SubscriptionStatusDeleted:
		return s != to
	}
	return false
}

// VendorSubscription is the billing record for one vendor store.
// The Warned*/ExpiredNoticeSentAt timestamps double as idempotency markers
// for the sweep's outbound notifications.
type VendorSubscription struct {
	Id                  uuid.UUID
	VendorId            uuid.UUID
	StoreId             uuid.UUID
	Status              SubscriptionStatus
	ExpiresAt           time.Time
	SuspendedAt         *time.Time
	Warned7DayAt        *time.Time
	Warned3DayAt        *time.Time
	ExpiredNoticeSentAt *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ClearNotificationFlags resets every warning marker so the next billing
// cycle's reminders fire fresh. Called on successful renewal.
func (s *VendorSubscription) ClearNotificationFlags() {
	s.Warned7DayAt = nil
	s.Warned3DayAt = nil
	s.ExpiredNoticeSentAt = nil
}
