package mapper

import (
	"markethub-be/internal/entity"
	"markethub-be/internal/model"
)

type BookingMapper struct{}

func NewBookingMapper() *BookingMapper {
	return &BookingMapper{}
}

func (m *BookingMapper) ToEntity(b *model.Booking) *entity.Booking {
	if b == nil {
		return nil
	}
	return &entity.Booking{
		Id:          b.Id,
		ProviderId:  b.ProviderId,
		CustomerId:  b.CustomerId,
		ServiceId:   b.ServiceId,
		Date:        b.Date,
		StartMinute: b.StartMinute,
		EndMinute:   b.EndMinute,
		Status:      entity.BookingStatus(b.Status),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (m *BookingMapper) ToModel(b *entity.Booking) *model.Booking {
	if b == nil {
		return nil
	}
	return &model.Booking{
		Id:          b.Id,
		ProviderId:  b.ProviderId,
		CustomerId:  b.CustomerId,
		ServiceId:   b.ServiceId,
		Date:        b.Date,
		StartMinute: b.StartMinute,
		EndMinute:   b.EndMinute,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
