package mapper

import (
	"markethub-be/internal/entity"
	"markethub-be/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) ToEntity(s *model.VendorSubscription) *entity.VendorSubscription {
	if s == nil {
		return nil
	}
	return &entity.VendorSubscription{
		Id:                  s.Id,
		VendorId:            s.VendorId,
		StoreId:             s.StoreId,
		Status:              entity.SubscriptionStatus(s.Status),
		ExpiresAt:           s.ExpiresAt,
		SuspendedAt:         s.SuspendedAt,
		Warned7DayAt:        s.Warned7DayAt,
		Warned3DayAt:        s.Warned3DayAt,
		ExpiredNoticeSentAt: s.ExpiredNoticeSentAt,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) ToModel(s *entity.VendorSubscription) *model.VendorSubscription {
	if s == nil {
		return nil
	}
	return &model.VendorSubscription{
		Id:                  s.Id,
		VendorId:            s.VendorId,
		StoreId:             s.StoreId,
		Status:              string(s.Status),
		ExpiresAt:           s.ExpiresAt,
		SuspendedAt:         s.SuspendedAt,
		Warned7DayAt:        s.Warned7DayAt,
		Warned3DayAt:        s.Warned3DayAt,
		ExpiredNoticeSentAt: s.ExpiredNoticeSentAt,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}
