package implementation

import (
	"context"
	"errors"
	"hash/fnv"
	"time"

	"markethub-be/internal/entity"
	"markethub-be/internal/mapper"
	"markethub-be/internal/model"
	"markethub-be/internal/repository/contract"
	"markethub-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookingMapper
}

func NewBookingRepository(db *gorm.DB) contract.BookingRepository {
	return &BookingRepositoryImpl{
		db:     db,
		mapper: mapper.NewBookingMapper(),
	}
}

func (r *BookingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// bookingLockKey folds (provider, calendar day) into the bigint keyspace
// of pg_advisory_xact_lock. All writers for one provider-day serialize on
// this key, so the overlap re-check below cannot race a concurrent insert
// into the same empty slot (row locks alone cannot lock rows that do not
// exist yet).
func bookingLockKey(providerId uuid.UUID, day time.Time) int64 {
	h := fnv.New64a()
	h.Write(providerId[:])
	h.Write([]byte(day.Format("2006-01-02")))
	return int64(h.Sum64())
}

// CreateIfFree runs in a transaction that takes the provider-day advisory
// lock, re-checks overlap, and only then inserts. The lock is released at
// commit/rollback. Half-open intervals: start < existing end AND
// end > existing start.
func (r *BookingRepositoryImpl) CreateIfFree(ctx context.Context, b *entity.Booking) error {
	m := r.mapper.ToModel(b)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", bookingLockKey(b.ProviderId, b.Date)).Error; err != nil {
			return err
		}

		var existing model.Booking
		err := tx.Model(&model.Booking{}).
			Where("provider_id = ? AND date = ? AND status <> ?",
				m.ProviderId, m.Date.Format("2006-01-02"), string(entity.BookingStatusCancelled)).
			Where("start_minute < ? AND end_minute > ?", m.EndMinute, m.StartMinute).
			Take(&existing).Error

		if err == nil {
			return contract.ErrSlotTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(m).Error
	})
	if err != nil {
		return err
	}
	*b = *r.mapper.ToEntity(m)
	return nil
}

func (r *BookingRepositoryImpl) FindAllForProviderDay(ctx context.Context, providerId uuid.UUID, day time.Time) ([]*entity.Booking, error) {
	var models []*model.Booking
	err := r.applySpecifications(r.db.WithContext(ctx),
		specification.ProviderOnDay{ProviderID: providerId, Day: day},
		specification.OrderBy{Field: "start_minute", Desc: false},
	).Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.Booking, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *BookingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error) {
	var m model.Booking
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BookingRepositoryImpl) Update(ctx context.Context, b *entity.Booking) error {
	m := r.mapper.ToModel(b)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*b = *r.mapper.ToEntity(m)
	return nil
}

func (r *BookingRepositoryImpl) DeleteAllByVendor(ctx context.Context, vendorId uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("provider_id = ?", vendorId).Delete(&model.Booking{})
	return result.RowsAffected, result.Error
}
