package mapper

import (
	"markethub-be/internal/entity"
	"markethub-be/internal/model"
)

type StoreMapper struct{}

func NewStoreMapper() *StoreMapper {
	return &StoreMapper{}
}

func (m *StoreMapper) ToEntity(s *model.Store) *entity.Store {
	if s == nil {
		return nil
	}
	return &entity.Store{
		Id:          s.Id,
		VendorId:    s.VendorId,
		Name:        s.Name,
		Slug:        s.Slug,
		Description: s.Description,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (m *StoreMapper) ToModel(s *entity.Store) *model.Store {
	if s == nil {
		return nil
	}
	return &model.Store{
		Id:          s.Id,
		VendorId:    s.VendorId,
		Name:        s.Name,
		Slug:        s.Slug,
		Description: s.Description,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

type ProductMapper struct{}

func NewProductMapper() *ProductMapper {
	return &ProductMapper{}
}

func (m *ProductMapper) ToEntity(p *model.Product) *entity.Product {
	if p == nil {
		return nil
	}
	return &entity.Product{
		Id:         p.Id,
		StoreId:    p.StoreId,
		VendorId:   p.VendorId,
		Sku:        p.Sku,
		Name:       p.Name,
		Price:      p.Price,
		Stock:      p.Stock,
		SalesCount: p.SalesCount,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (m *ProductMapper) ToModel(p *entity.Product) *model.Product {
	if p == nil {
		return nil
	}
	return &model.Product{
		Id:         p.Id,
		StoreId:    p.StoreId,
		VendorId:   p.VendorId,
		Sku:        p.Sku,
		Name:       p.Name,
		Price:      p.Price,
		Stock:      p.Stock,
		SalesCount: p.SalesCount,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

type ServiceListingMapper struct{}

func NewServiceListingMapper() *ServiceListingMapper {
	return &ServiceListingMapper{}
}

func (m *ServiceListingMapper) ToEntity(s *model.ServiceListing) *entity.ServiceListing {
	if s == nil {
		return nil
	}
	return &entity.ServiceListing{
		Id:          s.Id,
		VendorId:    s.VendorId,
		StoreId:     s.StoreId,
		Title:       s.Title,
		Price:       s.Price,
		DurationMin: s.DurationMin,
		IsPublished: s.IsPublished,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (m *ServiceListingMapper) ToModel(s *entity.ServiceListing) *model.ServiceListing {
	if s == nil {
		return nil
	}
	return &model.ServiceListing{
		Id:          s.Id,
		VendorId:    s.VendorId,
		StoreId:     s.StoreId,
		Title:       s.Title,
		Price:       s.Price,
		DurationMin: s.DurationMin,
		IsPublished: s.IsPublished,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
