package contract

import (
	"context"

	"markethub-be/internal/entity"
	"markethub-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *entity.VendorSubscription) error
	Update(ctx context.Context, sub *entity.VendorSubscription) error
	// Delete removes the row itself; cascade cleanup of dependent entities
	// is orchestrated by the sweep, not the repository.
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.VendorSubscription, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.VendorSubscription, error)
	// FindAllSweepable returns every subscription the sweep must evaluate
	// (anything not already deleted).
	FindAllSweepable(ctx context.Context) ([]*entity.VendorSubscription, error)
}
