package service

import (
	"context"
	"errors"
	"fmt"

	"markethub-be/internal/dto"
	"markethub-be/internal/entity"
	"markethub-be/internal/repository/specification"
	"markethub-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

var ErrIllegalTransition = errors.New("illegal order status transition")

type IOrderService interface {
	GetOrder(ctx context.Context, buyerId, orderId uuid.UUID) (*dto.OrderResponse, error)
	// AdvanceSubOrder moves one vendor sub-order forward along the
	// fulfilment path. Backwards moves are rejected.
	AdvanceSubOrder(ctx context.Context, vendorId, subOrderId uuid.UUID, req *dto.AdvanceSubOrderRequest) (*dto.SubOrderResponse, error)
}

type orderService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewOrderService(uowFactory unitofwork.RepositoryFactory) IOrderService {
	return &orderService{uowFactory: uowFactory}
}

func (s *orderService) GetOrder(ctx context.Context, buyerId, orderId uuid.UUID) (*dto.OrderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	order, err := uow.OrderRepository().FindOne(ctx, specification.ByID{ID: orderId})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.BuyerId != buyerId {
		return nil, errors.New("order belongs to another buyer")
	}

	res := &dto.OrderResponse{
		Id:               order.Id,
		PaymentReference: order.PaymentReference,
		PaymentStatus:    string(order.PaymentStatus),
		Status:           string(order.Status),
		GrossAmount:      int64(order.Total),
		PaidAt:           order.PaidAt,
	}
	for _, so := range order.SubOrders {
		res.SubOrders = append(res.SubOrders, dto.SubOrderResponse{
			Id:       so.Id,
			OrderId:  so.OrderId,
			VendorId: so.VendorId,
			Status:   string(so.Status),
		})
	}
	return res, nil
}

func (s *orderService) AdvanceSubOrder(ctx context.Context, vendorId, subOrderId uuid.UUID, req *dto.AdvanceSubOrderRequest) (*dto.SubOrderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	subOrder, err := uow.OrderRepository().FindSubOrder(ctx, subOrderId)
	if err != nil {
		return nil, err
	}
	if subOrder == nil {
		return nil, errors.New("sub-order not found")
	}
	if subOrder.VendorId != vendorId {
		return nil, errors.New("sub-order belongs to another vendor")
	}

	target := entity.OrderStatus(req.Status)
	if !subOrder.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, subOrder.Status, target)
	}

	if err := uow.OrderRepository().UpdateSubOrderStatus(ctx, subOrderId, target); err != nil {
		return nil, err
	}

	return &dto.SubOrderResponse{
		Id:       subOrder.Id,
		OrderId:  subOrder.OrderId,
		VendorId: subOrder.VendorId,
		Status:   string(target),
	}, nil
}
