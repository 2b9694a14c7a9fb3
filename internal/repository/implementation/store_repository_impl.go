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

type StoreRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.StoreMapper
}

func NewStoreRepository(db *gorm.DB) contract.StoreRepository {
	return &StoreRepositoryImpl{
		db:     db,
		mapper: mapper.NewStoreMapper(),
	}
}

func (r *StoreRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *StoreRepositoryImpl) Create(ctx context.Context, store *entity.Store) error {
	m := r.mapper.ToModel(store)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*store = *r.mapper.ToEntity(m)
	return nil
}

func (r *StoreRepositoryImpl) Update(ctx context.Context, store *entity.Store) error {
	m := r.mapper.ToModel(store)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*store = *r.mapper.ToEntity(m)
	return nil
}

func (r *StoreRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Store, error) {
	var m model.Store
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *StoreRepositoryImpl) SetActive(ctx context.Context, storeId uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Store{}).
		Where("id = ?", storeId).
		Update("is_active", active).Error
}

func (r *StoreRepositoryImpl) DeleteAllByVendor(ctx context.Context, vendorId uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("vendor_id = ?", vendorId).Delete(&model.Store{})
	return result.RowsAffected, result.Error
}
