package implementation

import (
	"context"
	"errors"

	"markethub-be/internal/entity"
	"markethub-be/internal/mapper"
	"markethub-be/internal/model"
	"markethub-be/internal/repository/contract"
	"markethub-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProductMapper
}

func NewProductRepository(db *gorm.DB) contract.ProductRepository {
	return &ProductRepositoryImpl{
		db:     db,
		mapper: mapper.NewProductMapper(),
	}
}

func (r *ProductRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProductRepositoryImpl) Create(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ToModel(product)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*product = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProductRepositoryImpl) Update(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ToModel(product)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*product = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProductRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	var m model.Product
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

// AdjustInventory applies the stock decrement and sales increment as one
// arithmetic UPDATE so concurrent reconciliations never lose a write.
func (r *ProductRepositoryImpl) AdjustInventory(ctx context.Context, productId uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", productId).
		Updates(map[string]interface{}{
			"stock":       gorm.Expr("GREATEST(stock - ?, 0)", qty),
			"sales_count": gorm.Expr("sales_count + ?", qty),
		}).Error
}

func (r *ProductRepositoryImpl) DeleteAllByVendor(ctx context.Context, vendorId uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("vendor_id = ?", vendorId).Delete(&model.Product{})
	return result.RowsAffected, result.Error
}
