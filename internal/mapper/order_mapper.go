package mapper

import (
	"markethub-be/internal/entity"
	"markethub-be/internal/model"

	"gorm.io/datatypes"
)

type OrderMapper struct{}

func NewOrderMapper() *OrderMapper {
	return &OrderMapper{}
}

func (m *OrderMapper) ToEntity(o *model.Order) *entity.Order {
	if o == nil {
		return nil
	}
	out := &entity.Order{
		Id:               o.Id,
		BuyerId:          o.BuyerId,
		PaymentReference: o.PaymentReference,
		PaymentStatus:    entity.PaymentStatus(o.PaymentStatus),
		Status:           entity.OrderStatus(o.Status),
		Total:            o.Total,
		GatewayResponse:  []byte(o.GatewayResponse),
		PaidAt:           o.PaidAt,
		VendorDeleted:    o.VendorDeleted,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
	for _, it := range o.Items {
		// Top-level lines only; sub-order lines hang off their sub-order.
		if it.SubOrderId == nil {
			out.Items = append(out.Items, *m.itemToEntity(it))
		}
	}
	for _, so := range o.SubOrders {
		out.SubOrders = append(out.SubOrders, *m.subOrderToEntity(so))
	}
	return out
}

func (m *OrderMapper) itemToEntity(it *model.OrderItem) *entity.OrderItem {
	return &entity.OrderItem{
		Id:         it.Id,
		OrderId:    it.OrderId,
		SubOrderId: it.SubOrderId,
		ProductId:  it.ProductId,
		Quantity:   it.Quantity,
		Price:      it.Price,
	}
}

func (m *OrderMapper) subOrderToEntity(so *model.VendorSubOrder) *entity.VendorSubOrder {
	out := &entity.VendorSubOrder{
		Id:        so.Id,
		OrderId:   so.OrderId,
		VendorId:  so.VendorId,
		Status:    entity.OrderStatus(so.Status),
		CreatedAt: so.CreatedAt,
		UpdatedAt: so.UpdatedAt,
	}
	for _, it := range so.Items {
		out.Items = append(out.Items, *m.itemToEntity(it))
	}
	return out
}

func (m *OrderMapper) ToModel(o *entity.Order) *model.Order {
	if o == nil {
		return nil
	}
	out := &model.Order{
		Id:               o.Id,
		BuyerId:          o.BuyerId,
		PaymentReference: o.PaymentReference,
		PaymentStatus:    string(o.PaymentStatus),
		Status:           string(o.Status),
		Total:            o.Total,
		GatewayResponse:  datatypes.JSON(o.GatewayResponse),
		PaidAt:           o.PaidAt,
		VendorDeleted:    o.VendorDeleted,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
	for i := range o.Items {
		out.Items = append(out.Items, m.itemToModel(&o.Items[i]))
	}
	for i := range o.SubOrders {
		so := &o.SubOrders[i]
		outSo := &model.VendorSubOrder{
			Id:        so.Id,
			OrderId:   so.OrderId,
			VendorId:  so.VendorId,
			Status:    string(so.Status),
			CreatedAt: so.CreatedAt,
			UpdatedAt: so.UpdatedAt,
		}
		for j := range so.Items {
			outSo.Items = append(outSo.Items, m.itemToModel(&so.Items[j]))
		}
		out.SubOrders = append(out.SubOrders, outSo)
	}
	return out
}

func (m *OrderMapper) itemToModel(it *entity.OrderItem) *model.OrderItem {
	return &model.OrderItem{
		Id:         it.Id,
		OrderId:    it.OrderId,
		SubOrderId: it.SubOrderId,
		ProductId:  it.ProductId,
		Quantity:   it.Quantity,
		Price:      it.Price,
	}
}

func (m *OrderMapper) SubOrderToEntity(so *model.VendorSubOrder) *entity.VendorSubOrder {
	if so == nil {
		return nil
	}
	return m.subOrderToEntity(so)
}
