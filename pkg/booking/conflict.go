// Package booking holds the pure slot-conflict decision. The caller
// supplies the provider's existing bookings; nothing is fetched or
// persisted here, which keeps the overlap law trivially testable.
package booking

import (
	"errors"
	"time"

	"markethub-be/internal/entity"
)

var ErrInvalidSlot = errors.New("slot start must be before end")

// CheckConflict returns the first existing booking that overlaps the
// requested slot, or nil when the slot is free. Cancelled bookings and
// bookings on other days never conflict. Touching boundaries
// (request end == existing start) do not conflict.
func CheckConflict(date time.Time, startMinute, endMinute int, existing []*entity.Booking) (*entity.Booking, error) {
	if startMinute >= endMinute {
		return nil, ErrInvalidSlot
	}
	for _, b := range existing {
		if b.Status == entity.BookingStatusCancelled {
			continue
		}
		if !b.SameDay(date) {
			continue
		}
		if startMinute < b.EndMinute && endMinute > b.StartMinute {
			return b, nil
		}
	}
	return nil, nil
}
