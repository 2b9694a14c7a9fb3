package implementation

import (
	"context"
	"errors"
	"time"

	"markethub-be/internal/entity"
	"markethub-be/internal/mapper"
	"markethub-be/internal/model"
	"markethub-be/internal/repository/contract"
	"markethub-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.OrderMapper
}

func NewOrderRepository(db *gorm.DB) contract.OrderRepository {
	return &OrderRepositoryImpl{
		db:     db,
		mapper: mapper.NewOrderMapper(),
	}
}

func (r *OrderRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *OrderRepositoryImpl) Create(ctx context.Context, order *entity.Order) error {
	m := r.mapper.ToModel(order)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*order = *r.mapper.ToEntity(m)
	return nil
}

func (r *OrderRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error) {
	var m model.Order
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	query = query.Preload("Items").Preload("SubOrders").Preload("SubOrders.Items")
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *OrderRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Order, error) {
	var models []*model.Order
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	query = query.Preload("Items").Preload("SubOrders").Preload("SubOrders.Items")
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Order, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

// MarkPaymentCompleted flips the order to completed/confirmed in a single
// conditional UPDATE. The payment_status predicate makes the write a
// compare-and-set: of N racing invocations for the same reference exactly
// one observes RowsAffected == 1.
func (r *OrderRepositoryImpl) MarkPaymentCompleted(ctx context.Context, reference string, gatewayResponse []byte, paidAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("payment_reference = ? AND payment_status <> ?", reference, string(entity.PaymentStatusCompleted)).
		Updates(map[string]interface{}{
			"payment_status":   string(entity.PaymentStatusCompleted),
			"status":           string(entity.OrderStatusConfirmed),
			"gateway_response": datatypes.JSON(gatewayResponse),
			"paid_at":          paidAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *OrderRepositoryImpl) MarkVendorDeletedByVendor(ctx context.Context, vendorId uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id IN (?)", r.db.Model(&model.VendorSubOrder{}).Select("order_id").Where("vendor_id = ?", vendorId)).
		Update("vendor_deleted", true)
	return result.RowsAffected, result.Error
}

func (r *OrderRepositoryImpl) FindSubOrder(ctx context.Context, id uuid.UUID) (*entity.VendorSubOrder, error) {
	var m model.VendorSubOrder
	if err := r.db.WithContext(ctx).Preload("Items").First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SubOrderToEntity(&m), nil
}

func (r *OrderRepositoryImpl) UpdateSubOrderStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.VendorSubOrder{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}
