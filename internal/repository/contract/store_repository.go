package contract

import (
	"context"

	"markethub-be/internal/entity"
	"markethub-be/internal/repository/specification"

	"github.com/google/uuid"
)

type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	Update(ctx context.Context, store *entity.Store) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Store, error)
	SetActive(ctx context.Context, storeId uuid.UUID, active bool) error
	DeleteAllByVendor(ctx context.Context, vendorId uuid.UUID) (int64, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error)

	// AdjustInventory decrements stock and increments sales by qty in one
	// arithmetic UPDATE; stock never goes below zero.
	AdjustInventory(ctx context.Context, productId uuid.UUID, qty int) error

	DeleteAllByVendor(ctx context.Context, vendorId uuid.UUID) (int64, error)
}

type ServiceListingRepository interface {
	Create(ctx context.Context, listing *entity.ServiceListing) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ServiceListing, error)
	SetPublishedByVendor(ctx context.Context, vendorId uuid.UUID, published bool) (int64, error)
	DeleteAllByVendor(ctx context.Context, vendorId uuid.UUID) (int64, error)
}

type ConversationRepository interface {
	Create(ctx context.Context, conv *entity.Conversation) error
	DeleteAllByVendor(ctx context.Context, vendorId uuid.UUID) (int64, error)
}
