package implementation

import (
	"context"

	"markethub-be/internal/entity"
	"markethub-be/internal/mapper"
	"markethub-be/internal/model"
	"markethub-be/internal/repository/contract"
	"markethub-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServiceListingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ServiceListingMapper
}

func NewServiceListingRepository(db *gorm.DB) contract.ServiceListingRepository {
	return &ServiceListingRepositoryImpl{
		db:     db,
		mapper: mapper.NewServiceListingMapper(),
	}
}

func (r *ServiceListingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ServiceListingRepositoryImpl) Create(ctx context.Context, listing *entity.ServiceListing) error {
	m := r.mapper.ToModel(listing)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*listing = *r.mapper.ToEntity(m)
	return nil
}

func (r *ServiceListingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ServiceListing, error) {
	var models []*model.ServiceListing
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ServiceListing, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ServiceListingRepositoryImpl) SetPublishedByVendor(ctx context.Context, vendorId uuid.UUID, published bool) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.ServiceListing{}).
		Where("vendor_id = ?", vendorId).
		Update("is_published", published)
	return result.RowsAffected, result.Error
}

func (r *ServiceListingRepositoryImpl) DeleteAllByVendor(ctx context.Context, vendorId uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("vendor_id = ?", vendorId).Delete(&model.ServiceListing{})
	return result.RowsAffected, result.Error
}

type ConversationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewConversationRepository(db *gorm.DB) contract.ConversationRepository {
	return &ConversationRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *ConversationRepositoryImpl) Create(ctx context.Context, conv *entity.Conversation) error {
	m := r.mapper.ToModel(conv)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*conv = *r.mapper.ToEntity(m)
	return nil
}

func (r *ConversationRepositoryImpl) DeleteAllByVendor(ctx context.Context, vendorId uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("vendor_id = ?", vendorId).Delete(&model.Conversation{})
	return result.RowsAffected, result.Error
}
