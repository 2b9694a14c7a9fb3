package service

import (
	"context"
	"testing"
	"time"

	"markethub-be/internal/config"
	"markethub-be/internal/dto"
	"markethub-be/internal/entity"
	"markethub-be/internal/repository/memory"

	"markethub-be/pkg/gateway"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	store   *memStore
	gateway *fakeGateway
	cache   *memory.ReferenceCache
	pubSub  *gochannel.GoChannel
	svc     IPaymentService
}

func newPaymentFixture(t *testing.T, gw *fakeGateway) *paymentFixture {
	t.Helper()
	store := newMemStore()
	cache := memory.NewReferenceCache()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { pubSub.Close() })

	cfg := &config.Config{
		Billing: config.BillingConfig{PeriodDays: 30, GraceDays: 7, SignupTTLMin: 60},
	}
	svc := NewPaymentService(&fakeFactory{store: store}, gw, cache, pubSub, nil, cfg, nopLogger{})
	return &paymentFixture{store: store, gateway: gw, cache: cache, pubSub: pubSub, svc: svc}
}

func seedPaidOrder(f *paymentFixture, stock, qty int) (*entity.Order, *entity.Product) {
	buyer := &entity.User{Id: uuid.New(), Email: "buyer@example.com", FullName: "Buyer"}
	f.store.users[buyer.Id] = buyer

	product := &entity.Product{
		Id:       uuid.New(),
		VendorId: uuid.New(),
		Name:     "Widget",
		Sku:      "WDG-001",
		Price:    50000,
		Stock:    stock,
	}
	f.store.products[product.Id] = product

	orderId := uuid.New()
	order := &entity.Order{
		Id:               orderId,
		BuyerId:          buyer.Id,
		PaymentReference: orderId.String(),
		PaymentStatus:    entity.PaymentStatusPending,
		Status:           entity.OrderStatusPending,
		Total:            product.Price * float64(qty),
		Items: []entity.OrderItem{
			{Id: uuid.New(), OrderId: orderId, ProductId: product.Id.String(), Quantity: qty, Price: product.Price},
		},
	}
	f.store.orders[order.Id] = order
	return order, product
}

func TestReconcileAppliesExactlyOnce(t *testing.T) {
	gw := &fakeGateway{result: &gateway.VerificationResult{
		Success:    true,
		RawPayload: []byte(`{"transaction_status":"settlement"}`),
	}}
	f := newPaymentFixture(t, gw)
	order, product := seedPaidOrder(f, 10, 2)

	res, err := f.svc.Reconcile(context.Background(), order.PaymentReference)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, "applied", res.Status)

	stored := f.store.orders[order.Id]
	assert.Equal(t, entity.PaymentStatusCompleted, stored.PaymentStatus)
	assert.Equal(t, entity.OrderStatusConfirmed, stored.Status)
	require.NotNil(t, stored.PaidAt)
	assert.Equal(t, []byte(`{"transaction_status":"settlement"}`), stored.GatewayResponse)

	assert.Equal(t, 8, f.store.products[product.Id].Stock)
	assert.Equal(t, 2, f.store.products[product.Id].SalesCount)

	// Redelivery hits the reference cache and applies nothing.
	res, err = f.svc.Reconcile(context.Background(), order.PaymentReference)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, "duplicate", res.Status)
	assert.Equal(t, 8, f.store.products[product.Id].Stock)
}

func TestReconcileConditionalUpdateGuardsColdCache(t *testing.T) {
	gw := &fakeGateway{result: &gateway.VerificationResult{Success: true}}
	f := newPaymentFixture(t, gw)
	order, product := seedPaidOrder(f, 10, 3)

	res, err := f.svc.Reconcile(context.Background(), order.PaymentReference)
	require.NoError(t, err)
	require.True(t, res.Applied)
	require.Equal(t, 7, f.store.products[product.Id].Stock)

	// A second process with an empty cache reaches the database; the
	// conditional update must still reject the replay.
	coldPubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { coldPubSub.Close() })
	cold := NewPaymentService(
		&fakeFactory{store: f.store}, gw, memory.NewReferenceCache(), coldPubSub, nil,
		&config.Config{Billing: config.BillingConfig{PeriodDays: 30}}, nopLogger{},
	)

	res, err = cold.Reconcile(context.Background(), order.PaymentReference)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, "already_applied", res.Status)
	assert.Equal(t, 7, f.store.products[product.Id].Stock)
}

func TestReconcileNotifiesBuyerAndEachVendor(t *testing.T) {
	gw := &fakeGateway{result: &gateway.VerificationResult{Success: true}}
	f := newPaymentFixture(t, gw)

	mail := &fakeMailer{}
	consumer := NewConsumerService(f.pubSub, OrderConfirmationTopic, mail)
	require.NoError(t, consumer.Consume(context.Background()))

	buyer := &entity.User{Id: uuid.New(), Email: "buyer@example.com"}
	vendorA := &entity.User{Id: uuid.New(), Email: "vendor-a@example.com"}
	vendorB := &entity.User{Id: uuid.New(), Email: "vendor-b@example.com"}
	for _, u := range []*entity.User{buyer, vendorA, vendorB} {
		f.store.users[u.Id] = u
	}

	prodA := &entity.Product{Id: uuid.New(), VendorId: vendorA.Id, Sku: "CAM-001", Price: 30000, Stock: 5}
	prodB := &entity.Product{Id: uuid.New(), VendorId: vendorB.Id, Sku: "LEN-001", Price: 20000, Stock: 5}
	f.store.products[prodA.Id] = prodA
	f.store.products[prodB.Id] = prodB

	orderId := uuid.New()
	order := &entity.Order{
		Id:               orderId,
		BuyerId:          buyer.Id,
		PaymentReference: orderId.String(),
		PaymentStatus:    entity.PaymentStatusPending,
		Status:           entity.OrderStatusPending,
		Total:            80000,
		SubOrders: []entity.VendorSubOrder{
			{
				Id: uuid.New(), OrderId: orderId, VendorId: vendorA.Id, Status: entity.OrderStatusPending,
				Items: []entity.OrderItem{{Id: uuid.New(), OrderId: orderId, ProductId: prodA.Id.String(), Quantity: 2, Price: prodA.Price}},
			},
			{
				Id: uuid.New(), OrderId: orderId, VendorId: vendorB.Id, Status: entity.OrderStatusPending,
				Items: []entity.OrderItem{{Id: uuid.New(), OrderId: orderId, ProductId: prodB.Id.String(), Quantity: 1, Price: prodB.Price}},
			},
		},
	}
	f.store.orders[order.Id] = order

	res, err := f.svc.Reconcile(context.Background(), order.PaymentReference)
	require.NoError(t, err)
	require.True(t, res.Applied)

	assert.Eventually(t, func() bool {
		return mail.count("order_confirmation") == 3
	}, 2*time.Second, 10*time.Millisecond)

	assert.True(t, mail.sentTo("order_confirmation", "buyer@example.com"))
	assert.True(t, mail.sentTo("order_confirmation", "vendor-a@example.com"))
	assert.True(t, mail.sentTo("order_confirmation", "vendor-b@example.com"))

	// The buyer sees the full total, each vendor only their share.
	assert.Equal(t, int64(80000), mail.amountTo("buyer@example.com"))
	assert.Equal(t, int64(60000), mail.amountTo("vendor-a@example.com"))
	assert.Equal(t, int64(20000), mail.amountTo("vendor-b@example.com"))
}

func TestReconcileUnknownReference(t *testing.T) {
	gw := &fakeGateway{result: &gateway.VerificationResult{Success: true}}
	f := newPaymentFixture(t, gw)

	_, err := f.svc.Reconcile(context.Background(), "no-such-order")
	require.ErrorIs(t, err, ErrOrderNotFound)

	// The miss must not be remembered as applied; a retry reaches the
	// gateway again and surfaces the same error, not "duplicate".
	_, err = f.svc.Reconcile(context.Background(), "no-such-order")
	require.ErrorIs(t, err, ErrOrderNotFound)
	assert.Equal(t, 2, gw.calls)
}

func TestReconcileVerificationFailureMutatesNothing(t *testing.T) {
	gw := &fakeGateway{err: gateway.ErrVerificationFailed}
	f := newPaymentFixture(t, gw)
	order, product := seedPaidOrder(f, 10, 2)

	_, err := f.svc.Reconcile(context.Background(), order.PaymentReference)
	require.ErrorIs(t, err, gateway.ErrVerificationFailed)

	assert.Equal(t, entity.PaymentStatusPending, f.store.orders[order.Id].PaymentStatus)
	assert.Equal(t, 10, f.store.products[product.Id].Stock)

	// After the gateway recovers, the same reference is still applicable.
	gw.err = nil
	gw.result = &gateway.VerificationResult{Success: true}
	res, err := f.svc.Reconcile(context.Background(), order.PaymentReference)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, 8, f.store.products[product.Id].Stock)
}

func TestReconcileNotPaid(t *testing.T) {
	gw := &fakeGateway{result: &gateway.VerificationResult{Success: false}}
	f := newPaymentFixture(t, gw)
	order, product := seedPaidOrder(f, 5, 1)

	res, err := f.svc.Reconcile(context.Background(), order.PaymentReference)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, "not_paid", res.Status)
	assert.Equal(t, entity.PaymentStatusPending, f.store.orders[order.Id].PaymentStatus)
	assert.Equal(t, 5, f.store.products[product.Id].Stock)
}

func TestReconcileResolvesProductBySku(t *testing.T) {
	gw := &fakeGateway{result: &gateway.VerificationResult{Success: true}}
	f := newPaymentFixture(t, gw)
	order, product := seedPaidOrder(f, 10, 2)

	// Order line references the product by SKU instead of its row id.
	order.Items[0].ProductId = product.Sku
	f.store.orders[order.Id] = order

	res, err := f.svc.Reconcile(context.Background(), order.PaymentReference)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, 8, f.store.products[product.Id].Stock)
}

func TestReconcileSkipsUnresolvableLine(t *testing.T) {
	gw := &fakeGateway{result: &gateway.VerificationResult{Success: true}}
	f := newPaymentFixture(t, gw)
	order, product := seedPaidOrder(f, 10, 2)

	order.Items = append(order.Items, entity.OrderItem{
		Id: uuid.New(), OrderId: order.Id, ProductId: "GHOST-SKU", Quantity: 4, Price: 100,
	})
	f.store.orders[order.Id] = order

	res, err := f.svc.Reconcile(context.Background(), order.PaymentReference)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, 8, f.store.products[product.Id].Stock)
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	gw := &fakeGateway{result: &gateway.VerificationResult{Success: true}}
	f := newPaymentFixture(t, gw)
	order, product := seedPaidOrder(f, 10, 2)

	payload := []byte(`{"order_id":"` + order.PaymentReference + `","transaction_status":"settlement"}`)

	err := f.svc.HandleWebhook(context.Background(), payload, "forged")
	require.ErrorIs(t, err, ErrInvalidSignature)
	assert.Equal(t, 0, gw.calls)
	assert.Equal(t, 10, f.store.products[product.Id].Stock)

	require.NoError(t, f.svc.HandleWebhook(context.Background(), payload, "valid"))
	assert.Equal(t, 8, f.store.products[product.Id].Stock)
}

func TestRenewSubscriptionExtendsFromLaterOfNowOrExpiry(t *testing.T) {
	gw := &fakeGateway{result: &gateway.VerificationResult{Success: true}}
	f := newPaymentFixture(t, gw)

	vendorId := uuid.New()
	sub := &entity.VendorSubscription{
		Id:        uuid.New(),
		VendorId:  vendorId,
		StoreId:   uuid.New(),
		Status:    entity.SubscriptionStatusActive,
		ExpiresAt: time.Now().AddDate(0, 0, 10),
	}
	f.store.subscriptions[sub.Id] = sub

	res, err := f.svc.RenewSubscription(context.Background(), vendorId, &dto.RenewSubscriptionRequest{})
	require.NoError(t, err)

	// Early renewal stacks onto the remaining ten days.
	want := sub.ExpiresAt.AddDate(0, 0, 30)
	assert.WithinDuration(t, want, res.ExpiresAt, time.Second)
	assert.Equal(t, string(entity.SubscriptionStatusActive), res.Status)
}

func TestRenewSubscriptionReactivatesSuspendedVendor(t *testing.T) {
	gw := &fakeGateway{result: &gateway.VerificationResult{Success: true}}
	f := newPaymentFixture(t, gw)

	vendorId := uuid.New()
	suspendedAt := time.Now().AddDate(0, 0, -3)
	warnedAt := time.Now().AddDate(0, 0, -12)

	user := &entity.User{Id: vendorId, Email: "vendor@example.com", IsSuspended: true}
	f.store.users[vendorId] = user

	st := &entity.Store{Id: uuid.New(), VendorId: vendorId, Name: "Vendor Store", IsActive: false}
	f.store.stores[st.Id] = st

	listing := &entity.ServiceListing{Id: uuid.New(), VendorId: vendorId, IsPublished: false}
	f.store.listings[listing.Id] = listing

	sub := &entity.VendorSubscription{
		Id:                  uuid.New(),
		VendorId:            vendorId,
		StoreId:             st.Id,
		Status:              entity.SubscriptionStatusSuspended,
		ExpiresAt:           time.Now().AddDate(0, 0, -3),
		SuspendedAt:         &suspendedAt,
		Warned7DayAt:        &warnedAt,
		Warned3DayAt:        &warnedAt,
		ExpiredNoticeSentAt: &warnedAt,
	}
	f.store.subscriptions[sub.Id] = sub

	res, err := f.svc.RenewSubscription(context.Background(), vendorId, &dto.RenewSubscriptionRequest{PeriodDays: 30})
	require.NoError(t, err)
	assert.Equal(t, string(entity.SubscriptionStatusActive), res.Status)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), res.ExpiresAt, time.Second)
	assert.Nil(t, res.SuspendedAt)

	stored := f.store.subscriptions[sub.Id]
	assert.Nil(t, stored.Warned7DayAt)
	assert.Nil(t, stored.Warned3DayAt)
	assert.Nil(t, stored.ExpiredNoticeSentAt)

	assert.True(t, f.store.stores[st.Id].IsActive)
	assert.True(t, f.store.listings[listing.Id].IsPublished)
	assert.False(t, f.store.users[vendorId].IsSuspended)
}

func TestSubscriptionStatusPhases(t *testing.T) {
	gw := &fakeGateway{result: &gateway.VerificationResult{Success: true}}
	f := newPaymentFixture(t, gw)

	cases := []struct {
		name      string
		expiresAt time.Time
		status    entity.SubscriptionStatus
		wantPhase string
	}{
		{"well before expiry", time.Now().AddDate(0, 0, 20), entity.SubscriptionStatusActive, "active"},
		{"inside grace window", time.Now().AddDate(0, 0, -3), entity.SubscriptionStatusSuspended, "grace"},
		{"past grace window", time.Now().AddDate(0, 0, -10), entity.SubscriptionStatusSuspended, "expired"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vendorId := uuid.New()
			sub := &entity.VendorSubscription{
				Id: uuid.New(), VendorId: vendorId, StoreId: uuid.New(),
				Status: tc.status, ExpiresAt: tc.expiresAt,
			}
			f.store.subscriptions[sub.Id] = sub

			res, err := f.svc.SubscriptionStatus(context.Background(), vendorId)
			require.NoError(t, err)
			assert.Equal(t, tc.wantPhase, res.Phase)
			assert.Equal(t, string(tc.status), res.Status)
		})
	}
}

func TestRenewSubscriptionRejectsDeleted(t *testing.T) {
	gw := &fakeGateway{result: &gateway.VerificationResult{Success: true}}
	f := newPaymentFixture(t, gw)

	vendorId := uuid.New()
	sub := &entity.VendorSubscription{
		Id:       uuid.New(),
		VendorId: vendorId,
		Status:   entity.SubscriptionStatusDeleted,
	}
	f.store.subscriptions[sub.Id] = sub

	_, err := f.svc.RenewSubscription(context.Background(), vendorId, &dto.RenewSubscriptionRequest{})
	require.Error(t, err)
}
