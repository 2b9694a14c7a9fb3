package contract

import (
	"context"
	"time"

	"markethub-be/internal/entity"
	"markethub-be/internal/repository/specification"

	"github.com/google/uuid"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Order, error)

	// MarkPaymentCompleted is the reconciler's idempotency gate: one
	// conditional UPDATE guarded by payment_status <> completed. Returns
	// true only for the single invocation that flipped the row.
	MarkPaymentCompleted(ctx context.Context, reference string, gatewayResponse []byte, paidAt time.Time) (bool, error)

	// MarkVendorDeletedByVendor flags orders containing the vendor's
	// sub-orders; orders are retained for buyer history.
	MarkVendorDeletedByVendor(ctx context.Context, vendorId uuid.UUID) (int64, error)

	FindSubOrder(ctx context.Context, id uuid.UUID) (*entity.VendorSubOrder, error)
	UpdateSubOrderStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error
}
