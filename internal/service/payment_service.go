package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"markethub-be/internal/config"
	"markethub-be/internal/dto"
	"markethub-be/internal/entity"
	"markethub-be/internal/pkg/logger"
	"markethub-be/internal/repository/memory"
	"markethub-be/internal/repository/specification"
	"markethub-be/internal/repository/unitofwork"

	"markethub-be/pkg/events"
	"markethub-be/pkg/gateway"
	"markethub-be/pkg/lifecycle"
	pktNats "markethub-be/pkg/nats" // Renamed to avoid collision

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// OrderConfirmationTopic is the in-process queue between the reconciler
// and the email consumer.
const OrderConfirmationTopic = "ORDER_CONFIRMATION_EMAIL"

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

type IPaymentService interface {
	Checkout(ctx context.Context, buyerId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	// Reconcile verifies one payment reference against the gateway and
	// applies its side effects at most once, no matter how many webhook
	// deliveries or manual retries hit it.
	Reconcile(ctx context.Context, reference string) (*dto.ReconcileResponse, error)
	HandleWebhook(ctx context.Context, rawPayload []byte, signature string) error
	RenewSubscription(ctx context.Context, vendorId uuid.UUID, req *dto.RenewSubscriptionRequest) (*dto.SubscriptionResponse, error)
	SubscriptionStatus(ctx context.Context, vendorId uuid.UUID) (*dto.SubscriptionStatusResponse, error)
}

type paymentService struct {
	uowFactory     unitofwork.RepositoryFactory
	gateway        gateway.PaymentGateway
	refCache       *memory.ReferenceCache
	pubSub         *gochannel.GoChannel
	eventPublisher *pktNats.Publisher
	midtransCfg    config.MidtransConfig
	billingCfg     config.BillingConfig
	clientURL      string
	logger         logger.ILogger
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	gw gateway.PaymentGateway,
	refCache *memory.ReferenceCache,
	pubSub *gochannel.GoChannel,
	eventPublisher *pktNats.Publisher,
	cfg *config.Config,
	log logger.ILogger,
) IPaymentService {
	return &paymentService{
		uowFactory:     uowFactory,
		gateway:        gw,
		refCache:       refCache,
		pubSub:         pubSub,
		eventPublisher: eventPublisher,
		midtransCfg:    cfg.Midtrans,
		billingCfg:     cfg.Billing,
		clientURL:      cfg.App.ClientURL,
		logger:         log,
	}
}

func (s *paymentService) Checkout(ctx context.Context, buyerId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	buyer, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: buyerId})
	if err != nil {
		return nil, err
	}
	if buyer == nil {
		return nil, errors.New("buyer not found")
	}

	orderId := uuid.New()
	reference := orderId.String()

	// Resolve products and group lines per vendor.
	var (
		total        float64
		itemDetails  []midtrans.ItemDetails
		vendorGroups = make(map[uuid.UUID][]entity.OrderItem)
		vendorOrder  []uuid.UUID
	)
	for _, line := range req.Items {
		product, err := uow.ProductRepository().FindOne(ctx, specification.ByID{ID: line.ProductId})
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("product %s not found", line.ProductId)
		}
		if product.Stock < line.Quantity {
			return nil, fmt.Errorf("product %s has insufficient stock", product.Name)
		}

		if _, seen := vendorGroups[product.VendorId]; !seen {
			vendorOrder = append(vendorOrder, product.VendorId)
		}
		vendorGroups[product.VendorId] = append(vendorGroups[product.VendorId], entity.OrderItem{
			Id:        uuid.New(),
			OrderId:   orderId,
			ProductId: product.Id.String(),
			Quantity:  line.Quantity,
			Price:     product.Price,
		})

		total += product.Price * float64(line.Quantity)
		itemDetails = append(itemDetails, midtrans.ItemDetails{
			ID:    product.Id.String(),
			Price: int64(product.Price),
			Qty:   int32(line.Quantity),
			Name:  product.Name,
		})
	}

	order := &entity.Order{
		Id:               orderId,
		BuyerId:          buyerId,
		PaymentReference: reference,
		PaymentStatus:    entity.PaymentStatusPending,
		Status:           entity.OrderStatusPending,
		Total:            total,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	for _, vendorId := range vendorOrder {
		subId := uuid.New()
		items := vendorGroups[vendorId]
		for i := range items {
			id := subId
			items[i].SubOrderId = &id
		}
		order.SubOrders = append(order.SubOrders, entity.VendorSubOrder{
			Id:        subId,
			OrderId:   orderId,
			VendorId:  vendorId,
			Status:    entity.OrderStatusPending,
			Items:     items,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.OrderRepository().Create(ctx, order); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// -- Midtrans Logic (external call stays outside the DB tx) --
	var sClient snap.Client
	env := midtrans.Sandbox
	if s.midtransCfg.IsProduction {
		env = midtrans.Production
	}
	sClient.New(s.midtransCfg.ServerKey, env)

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  reference,
			GrossAmt: int64(total),
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: fmt.Sprintf("%s/orders?payment=success", s.clientURL),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.FirstName,
			LName: req.LastName,
			Email: req.Email,
			Phone: req.Phone,
		},
		Items:           &itemDetails,
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	s.logger.Info("PaymentService", "Checkout created", map[string]interface{}{
		"order_id":  orderId,
		"reference": reference,
		"vendors":   len(order.SubOrders),
		"total":     total,
	})

	return &dto.CheckoutResponse{
		OrderId:          orderId,
		PaymentReference: reference,
		SnapToken:        snapResp.Token,
		SnapRedirectUrl:  snapResp.RedirectURL,
	}, nil
}

func (s *paymentService) HandleWebhook(ctx context.Context, rawPayload []byte, signature string) error {
	if !s.gateway.VerifyWebhookSignature(rawPayload, signature) {
		s.logger.Warn("PaymentService", "Webhook rejected: signature mismatch", nil)
		return ErrInvalidSignature
	}

	var req dto.MidtransWebhookRequest
	if err := json.Unmarshal(rawPayload, &req); err != nil {
		return fmt.Errorf("malformed webhook payload: %w", err)
	}
	if req.OrderId == "" {
		return errors.New("webhook payload missing order_id")
	}

	// The webhook body is advisory only. The authoritative status comes
	// from the verification call inside Reconcile.
	_, err := s.Reconcile(ctx, req.OrderId)
	return err
}

func (s *paymentService) Reconcile(ctx context.Context, reference string) (*dto.ReconcileResponse, error) {
	// Fast path for duplicate deliveries; the conditional UPDATE below is
	// what actually guarantees exactly-once.
	if s.refCache.WasApplied(reference) {
		return &dto.ReconcileResponse{Reference: reference, Applied: false, Status: "duplicate"}, nil
	}

	result, err := s.gateway.VerifyPayment(ctx, reference)
	if err != nil {
		s.logger.Warn("PaymentService", "Verification failed, nothing applied", map[string]interface{}{
			"reference": reference,
			"error":     err.Error(),
		})
		return nil, err
	}
	if !result.Success {
		return &dto.ReconcileResponse{Reference: reference, Applied: false, Status: "not_paid"}, nil
	}

	paidAt := time.Now()
	if result.PaidAt != nil {
		paidAt = *result.PaidAt
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	won, err := uow.OrderRepository().MarkPaymentCompleted(ctx, reference, result.RawPayload, paidAt)
	if err != nil {
		return nil, err
	}
	if !won {
		// The update touching zero rows means either an earlier delivery
		// already flipped the order, or no order carries this reference at
		// all. Only the former may be remembered as applied.
		order, err := uow.OrderRepository().FindOne(ctx, specification.ByPaymentReference{Reference: reference})
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, ErrOrderNotFound
		}
		if err := uow.Commit(); err != nil {
			return nil, err
		}
		s.refCache.MarkApplied(reference)
		return &dto.ReconcileResponse{Reference: reference, Applied: false, Status: "already_applied"}, nil
	}

	order, err := uow.OrderRepository().FindOne(ctx, specification.ByPaymentReference{Reference: reference})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	for _, item := range order.AllItems() {
		productId, err := s.resolveProduct(ctx, uow, item.ProductId)
		if err != nil {
			s.logger.Warn("PaymentService", "Order line matched no product, skipping inventory", map[string]interface{}{
				"reference":  reference,
				"product_id": item.ProductId,
			})
			continue
		}
		if err := uow.ProductRepository().AdjustInventory(ctx, productId, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.refCache.MarkApplied(reference)

	// Side effects run only on the invocation that won the flip, after the
	// durable state is committed.
	s.dispatchConfirmation(ctx, order)
	s.publishOrderConfirmed(ctx, order)

	s.logger.Info("PaymentService", "Payment reconciled", map[string]interface{}{
		"reference": reference,
		"order_id":  order.Id,
		"paid_at":   paidAt,
	})

	return &dto.ReconcileResponse{Reference: reference, Applied: true, Status: "applied"}, nil
}

// resolveProduct maps a stored order-line product identifier back to a
// product row: first as a raw UUID, then as a SKU.
func (s *paymentService) resolveProduct(ctx context.Context, uow unitofwork.UnitOfWork, raw string) (uuid.UUID, error) {
	if id, err := uuid.Parse(raw); err == nil {
		product, err := uow.ProductRepository().FindOne(ctx, specification.ByID{ID: id})
		if err != nil {
			return uuid.Nil, err
		}
		if product != nil {
			return product.Id, nil
		}
	}

	product, err := uow.ProductRepository().FindOne(ctx, specification.Filter("sku", raw))
	if err != nil {
		return uuid.Nil, err
	}
	if product == nil {
		return uuid.Nil, fmt.Errorf("no product for identifier %q", raw)
	}
	return product.Id, nil
}

// dispatchConfirmation queues one confirmation message for the buyer and
// one for every vendor with a sub-order. A failed recipient lookup skips
// that recipient only.
func (s *paymentService) dispatchConfirmation(ctx context.Context, order *entity.Order) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	type recipient struct {
		email  string
		amount int64
	}
	var recipients []recipient

	buyer, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: order.BuyerId})
	if err != nil || buyer == nil {
		s.logger.Warn("PaymentService", "Buyer lookup failed, buyer confirmation skipped", map[string]interface{}{
			"order_id": order.Id,
		})
	} else {
		recipients = append(recipients, recipient{email: buyer.Email, amount: int64(order.Total)})
	}

	for _, so := range order.SubOrders {
		vendor, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: so.VendorId})
		if err != nil || vendor == nil {
			s.logger.Warn("PaymentService", "Vendor lookup failed, vendor confirmation skipped", map[string]interface{}{
				"order_id":     order.Id,
				"sub_order_id": so.Id,
			})
			continue
		}
		var share float64
		for _, item := range so.Items {
			share += item.Price * float64(item.Quantity)
		}
		recipients = append(recipients, recipient{email: vendor.Email, amount: int64(share)})
	}

	for _, rcpt := range recipients {
		payload, err := json.Marshal(dto.OrderConfirmationMessage{
			OrderId:        order.Id,
			Reference:      order.PaymentReference,
			RecipientEmail: rcpt.email,
			GrossAmount:    rcpt.amount,
		})
		if err != nil {
			continue
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)
		if err := s.pubSub.Publish(OrderConfirmationTopic, msg); err != nil {
			s.logger.Error("PaymentService", "Failed to queue confirmation email", map[string]interface{}{
				"order_id":  order.Id,
				"recipient": rcpt.email,
				"error":     err,
			})
		}
	}
}

// publishOrderConfirmed notifies the buyer and each sub-order's vendor
// through the event bus; the notification worker fans these into inboxes.
func (s *paymentService) publishOrderConfirmed(ctx context.Context, order *entity.Order) {
	if s.eventPublisher == nil {
		return
	}

	now := time.Now()
	targets := []map[string]interface{}{{
		"user_id":     order.BuyerId.String(),
		"entity_type": "order",
		"entity_id":   order.Id.String(),
		"reference":   order.PaymentReference,
		"amount":      order.Total,
		"occurred_at": now,
	}}
	for _, so := range order.SubOrders {
		targets = append(targets, map[string]interface{}{
			"user_id":      so.VendorId.String(),
			"entity_type":  "order",
			"entity_id":    order.Id.String(),
			"sub_order_id": so.Id.String(),
			"reference":    order.PaymentReference,
			"occurred_at":  now,
		})
	}

	for _, data := range targets {
		evt := events.BaseEvent{
			Type:       events.TypeOrderConfirmed,
			Data:       data,
			OccurredAt: now,
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("PaymentService", "Failed to publish order confirmed event", map[string]interface{}{
				"order_id": order.Id,
				"error":    err.Error(),
			})
		}
	}
}

// SubscriptionStatus reports where the vendor's subscription sits on the
// expiry clock, independent of whether the sweep has acted on it yet.
func (s *paymentService) SubscriptionStatus(ctx context.Context, vendorId uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.VendorOwnedBy{VendorID: vendorId})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, errors.New("subscription not found")
	}

	days := lifecycle.DaysUntilExpiry(sub.ExpiresAt, time.Now())
	phase := "active"
	switch {
	case sub.Status == entity.SubscriptionStatusDeleted || days < -s.billingCfg.GraceDays:
		phase = "expired"
	case days < 0:
		phase = "grace"
	}

	return &dto.SubscriptionStatusResponse{
		Id:              sub.Id,
		Status:          string(sub.Status),
		Phase:           phase,
		ExpiresAt:       sub.ExpiresAt,
		SuspendedAt:     sub.SuspendedAt,
		DaysUntilExpiry: days,
	}, nil
}

func (s *paymentService) RenewSubscription(ctx context.Context, vendorId uuid.UUID, req *dto.RenewSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.VendorOwnedBy{VendorID: vendorId})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, errors.New("subscription not found")
	}
	if sub.Status == entity.SubscriptionStatusDeleted {
		return nil, errors.New("subscription was deleted; sign up again")
	}

	periodDays := req.PeriodDays
	if periodDays <= 0 {
		periodDays = s.billingCfg.PeriodDays
	}

	// Extend from whichever is later: an early renewal stacks onto the
	// remaining time, a late one restarts from today.
	now := time.Now()
	base := sub.ExpiresAt
	if base.Before(now) {
		base = now
	}

	wasSuspended := sub.Status == entity.SubscriptionStatusSuspended

	sub.Status = entity.SubscriptionStatusActive
	sub.ExpiresAt = base.AddDate(0, 0, periodDays)
	sub.SuspendedAt = nil
	sub.ClearNotificationFlags()
	sub.UpdatedAt = now

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return nil, err
	}

	if wasSuspended {
		if err := uow.StoreRepository().SetActive(ctx, sub.StoreId, true); err != nil {
			return nil, err
		}
		if _, err := uow.ServiceListingRepository().SetPublishedByVendor(ctx, vendorId, true); err != nil {
			return nil, err
		}
		if err := uow.UserRepository().SetSuspended(ctx, vendorId, false); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeSubscriptionRenewed,
			Data: map[string]interface{}{
				"user_id":     vendorId.String(),
				"entity_type": "subscription",
				"entity_id":   sub.Id.String(),
				"expires_at":  sub.ExpiresAt,
				"occurred_at": now,
			},
			OccurredAt: now,
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("PaymentService", "Failed to publish renewal event", map[string]interface{}{"error": err.Error()})
		}
	}

	s.logger.Info("PaymentService", "Subscription renewed", map[string]interface{}{
		"vendor_id":  vendorId,
		"expires_at": sub.ExpiresAt,
		"reactivate": wasSuspended,
	})

	return &dto.SubscriptionResponse{
		Id:          sub.Id,
		VendorId:    sub.VendorId,
		Status:      string(sub.Status),
		ExpiresAt:   sub.ExpiresAt,
		SuspendedAt: sub.SuspendedAt,
	}, nil
}
