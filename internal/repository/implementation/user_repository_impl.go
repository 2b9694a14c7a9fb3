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
	"gorm.io/gorm"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	m := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, user *entity.User) error {
	m := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var m model.User
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserRepositoryImpl) SetSuspended(ctx context.Context, userId uuid.UUID, suspended bool) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userId).
		Update("is_suspended", suspended).Error
}

func (r *UserRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.User{}, id).Error
}

type SignupIntentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SignupIntentMapper
}

func NewSignupIntentRepository(db *gorm.DB) contract.SignupIntentRepository {
	return &SignupIntentRepositoryImpl{
		db:     db,
		mapper: mapper.NewSignupIntentMapper(),
	}
}

func (r *SignupIntentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SignupIntentRepositoryImpl) Create(ctx context.Context, intent *entity.SignupIntent) error {
	m := r.mapper.ToModel(intent)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*intent = *r.mapper.ToEntity(m)
	return nil
}

func (r *SignupIntentRepositoryImpl) Update(ctx context.Context, intent *entity.SignupIntent) error {
	m := r.mapper.ToModel(intent)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*intent = *r.mapper.ToEntity(m)
	return nil
}

func (r *SignupIntentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SignupIntent, error) {
	var m model.SignupIntent
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

// DeleteStale is the daily "filter + delete" cleanup: pending intents
// older than the cutoff are removed; completed rows survive.
func (r *SignupIntentRepositoryImpl) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.StatusNot{Status: string(entity.SignupIntentStatusCompleted)},
		specification.CreatedBefore{Cutoff: cutoff},
	)
	result := query.Delete(&model.SignupIntent{})
	return result.RowsAffected, result.Error
}
