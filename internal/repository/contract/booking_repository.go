package contract

import (
	"context"
	"errors"
	"time"

	"markethub-be/internal/entity"
	"markethub-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ErrSlotTaken is returned when the persistence-time overlap re-check
// rejects a booking that raced another request past the pure check.
var ErrSlotTaken = errors.New("booking slot already taken")

type BookingRepository interface {
	// CreateIfFree persists the booking inside a transaction that locks
	// and re-checks overlapping rows for the same provider and day.
	CreateIfFree(ctx context.Context, booking *entity.Booking) error

	FindAllForProviderDay(ctx context.Context, providerId uuid.UUID, day time.Time) ([]*entity.Booking, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error)
	Update(ctx context.Context, booking *entity.Booking) error
	DeleteAllByVendor(ctx context.Context, vendorId uuid.UUID) (int64, error)
}
