package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

var bookingProgression = map[BookingStatus]int{
	BookingStatusPending:   0,
	BookingStatusConfirmed: 1,
	BookingStatusCompleted: 2,
}

func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	if s == BookingStatusCancelled || s == BookingStatusCompleted {
		return false
	}
	if to == BookingStatusCancelled {
		return true
	}
	from, okFrom := bookingProgression[s]
	next, okTo := bookingProgression[to]
	if !okFrom || !okTo {
		return false
	}
	return next > from
}

// Booking is one service appointment slot. Start/End are minutes since
// midnight on Date (date-truncated); the interval is half-open [Start,End).
type Booking struct {
	Id          uuid.UUID
	ProviderId  uuid.UUID
	CustomerId  uuid.UUID
	ServiceId   uuid.UUID
	Date        time.Time
	StartMinute int
	EndMinute   int
	Status      BookingStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SameDay reports whether the booking falls on the given calendar day.
func (b *Booking) SameDay(day time.Time) bool {
	by, bm, bd := b.Date.Date()
	dy, dm, dd := day.Date()
	return by == dy && bm == dm && bd == dd
}
