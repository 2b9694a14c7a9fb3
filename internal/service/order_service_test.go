package service

import (
	"context"
	"testing"

	"markethub-be/internal/dto"
	"markethub-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMultiVendorOrder(s *memStore) (*entity.Order, []uuid.UUID) {
	orderId := uuid.New()
	vendorA, vendorB := uuid.New(), uuid.New()
	order := &entity.Order{
		Id:               orderId,
		BuyerId:          uuid.New(),
		PaymentReference: orderId.String(),
		PaymentStatus:    entity.PaymentStatusCompleted,
		Status:           entity.OrderStatusConfirmed,
		Total:            150000,
		SubOrders: []entity.VendorSubOrder{
			{Id: uuid.New(), OrderId: orderId, VendorId: vendorA, Status: entity.OrderStatusConfirmed},
			{Id: uuid.New(), OrderId: orderId, VendorId: vendorB, Status: entity.OrderStatusConfirmed},
		},
	}
	s.orders[orderId] = order
	return order, []uuid.UUID{vendorA, vendorB}
}

func TestGetOrderOwnership(t *testing.T) {
	store := newMemStore()
	svc := NewOrderService(&fakeFactory{store: store})
	order, _ := seedMultiVendorOrder(store)

	res, err := svc.GetOrder(context.Background(), order.BuyerId, order.Id)
	require.NoError(t, err)
	assert.Equal(t, order.PaymentReference, res.PaymentReference)
	assert.Len(t, res.SubOrders, 2)

	_, err = svc.GetOrder(context.Background(), uuid.New(), order.Id)
	require.Error(t, err)

	_, err = svc.GetOrder(context.Background(), order.BuyerId, uuid.New())
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestAdvanceSubOrderForwardOnly(t *testing.T) {
	store := newMemStore()
	svc := NewOrderService(&fakeFactory{store: store})
	order, vendors := seedMultiVendorOrder(store)
	subId := order.SubOrders[0].Id

	res, err := svc.AdvanceSubOrder(context.Background(), vendors[0], subId, &dto.AdvanceSubOrderRequest{Status: "shipped"})
	require.NoError(t, err)
	assert.Equal(t, "shipped", res.Status)
	assert.Equal(t, entity.OrderStatusShipped, store.orders[order.Id].SubOrders[0].Status)

	// Backwards is rejected and leaves the row untouched.
	_, err = svc.AdvanceSubOrder(context.Background(), vendors[0], subId, &dto.AdvanceSubOrderRequest{Status: "processing"})
	require.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, entity.OrderStatusShipped, store.orders[order.Id].SubOrders[0].Status)
}

func TestAdvanceSubOrderIndependentPerVendor(t *testing.T) {
	store := newMemStore()
	svc := NewOrderService(&fakeFactory{store: store})
	order, vendors := seedMultiVendorOrder(store)

	_, err := svc.AdvanceSubOrder(context.Background(), vendors[0], order.SubOrders[0].Id, &dto.AdvanceSubOrderRequest{Status: "delivered"})
	require.NoError(t, err)

	stored := store.orders[order.Id]
	assert.Equal(t, entity.OrderStatusDelivered, stored.SubOrders[0].Status)
	assert.Equal(t, entity.OrderStatusConfirmed, stored.SubOrders[1].Status)
}

func TestAdvanceSubOrderVendorOwnership(t *testing.T) {
	store := newMemStore()
	svc := NewOrderService(&fakeFactory{store: store})
	order, vendors := seedMultiVendorOrder(store)

	// Vendor B cannot advance vendor A's slice.
	_, err := svc.AdvanceSubOrder(context.Background(), vendors[1], order.SubOrders[0].Id, &dto.AdvanceSubOrderRequest{Status: "shipped"})
	require.Error(t, err)
	assert.Equal(t, entity.OrderStatusConfirmed, store.orders[order.Id].SubOrders[0].Status)
}
