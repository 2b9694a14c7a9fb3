package service

import (
	"context"
	"fmt"
	"time"

	"markethub-be/internal/config"
	"markethub-be/internal/dto"
	"markethub-be/internal/entity"
	"markethub-be/internal/pkg/logger"
	"markethub-be/internal/pkg/mailer"
	"markethub-be/internal/repository/specification"
	"markethub-be/internal/repository/unitofwork"

	"markethub-be/pkg/events"
	"markethub-be/pkg/lifecycle"
	pktNats "markethub-be/pkg/nats"
	"markethub-be/pkg/notify"

	"github.com/google/uuid"
)

// Flag event names used with the notification gate. Each maps onto one
// sent-marker column of the subscription row.
const (
	flagWarn7   = "warn_7day"
	flagWarn3   = "warn_3day"
	flagExpired = "expired_notice"
)

type ISweepService interface {
	// Run evaluates every live subscription against the lifecycle clock
	// and applies warnings, suspension, or cascade deletion. Safe to run
	// any number of times per day.
	Run(ctx context.Context) (*dto.SweepReportResponse, error)

	// CleanupStaleSignups removes pending signup intents older than the
	// configured TTL.
	CleanupStaleSignups(ctx context.Context) (int64, error)
}

type sweepService struct {
	uowFactory     unitofwork.RepositoryFactory
	mailer         mailer.IEmailService
	eventPublisher *pktNats.Publisher
	billingCfg     config.BillingConfig
	logger         logger.ILogger
	now            func() time.Time
}

func NewSweepService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	cfg *config.Config,
	log logger.ILogger,
) ISweepService {
	return &sweepService{
		uowFactory:     uowFactory,
		mailer:         emailService,
		eventPublisher: eventPublisher,
		billingCfg:     cfg.Billing,
		logger:         log,
		now:            time.Now,
	}
}

func (s *sweepService) Run(ctx context.Context) (*dto.SweepReportResponse, error) {
	now := s.now()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	subs, err := uow.SubscriptionRepository().FindAllSweepable(ctx)
	if err != nil {
		return nil, err
	}

	report := &dto.SweepReportResponse{SubscriptionsScanned: len(subs)}

	for _, sub := range subs {
		bucket := lifecycle.Classify(sub.ExpiresAt, now)

		var err error
		switch bucket {
		case lifecycle.BucketWarn7:
			err = s.warn(ctx, sub, flagWarn7, 7, &report.Warned7Day)
		case lifecycle.BucketWarn3:
			err = s.warn(ctx, sub, flagWarn3, 3, &report.Warned3Day)
		case lifecycle.BucketGrace:
			err = s.suspend(ctx, sub, now, &report.Suspended)
		case lifecycle.BucketDelete:
			err = s.cascadeDelete(ctx, sub, &report.Deleted)
		}

		// One broken record must not stall the rest of the sweep.
		if err != nil {
			s.logger.Error("SweepService", "Subscription sweep step failed", map[string]interface{}{
				"subscription_id": sub.Id,
				"bucket":          string(bucket),
				"error":           err,
			})
		}
	}

	cleaned, err := s.CleanupStaleSignups(ctx)
	if err != nil {
		s.logger.Error("SweepService", "Stale signup cleanup failed", map[string]interface{}{"error": err})
	}
	report.StaleSignupsCleaned = int(cleaned)

	s.logger.Info("SweepService", "Sweep completed", map[string]interface{}{
		"scanned":        report.SubscriptionsScanned,
		"warned_7":       report.Warned7Day,
		"warned_3":       report.Warned3Day,
		"suspended":      report.Suspended,
		"deleted":        report.Deleted,
		"signups_purged": report.StaleSignupsCleaned,
	})

	return report, nil
}

func (s *sweepService) warn(ctx context.Context, sub *entity.VendorSubscription, flag string, daysLeft int, counter *int) error {
	if sub.Status != entity.SubscriptionStatusActive {
		return nil
	}

	vendor, store, err := s.vendorContext(ctx, sub)
	if err != nil {
		return err
	}
	if vendor == nil || store == nil {
		return fmt.Errorf("subscription %s has no vendor or store", sub.Id)
	}

	gate := notify.NewGate(s.flagStore())
	sent, err := gate.TrySend(ctx, sub.Id, flag, func() error {
		return s.mailer.SendExpiryWarning(vendor.Email, store.Name, daysLeft)
	})
	if err != nil {
		return err
	}
	if sent {
		*counter++
	}
	return nil
}

func (s *sweepService) suspend(ctx context.Context, sub *entity.VendorSubscription, now time.Time, counter *int) error {
	vendor, store, err := s.vendorContext(ctx, sub)
	if err != nil {
		return err
	}
	if vendor == nil || store == nil {
		return fmt.Errorf("subscription %s has no vendor or store", sub.Id)
	}

	if sub.Status == entity.SubscriptionStatusActive {
		if !sub.Status.CanTransitionTo(entity.SubscriptionStatusSuspended) {
			return fmt.Errorf("illegal transition %s -> suspended", sub.Status)
		}

		uow := s.uowFactory.NewUnitOfWork(ctx)
		if err := uow.Begin(ctx); err != nil {
			return err
		}
		defer uow.Rollback()

		suspendedAt := now
		sub.Status = entity.SubscriptionStatusSuspended
		sub.SuspendedAt = &suspendedAt
		sub.UpdatedAt = now

		if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
			return err
		}
		if err := uow.StoreRepository().SetActive(ctx, sub.StoreId, false); err != nil {
			return err
		}
		if _, err := uow.ServiceListingRepository().SetPublishedByVendor(ctx, sub.VendorId, false); err != nil {
			return err
		}
		if err := uow.UserRepository().SetSuspended(ctx, sub.VendorId, true); err != nil {
			return err
		}

		if err := uow.Commit(); err != nil {
			return err
		}
		*counter++

		s.publish(ctx, events.TypeSubscriptionSuspended, sub)
	}

	// The notice rides its own gate so a failed send is retried on the
	// next sweep without re-suspending anything.
	gate := notify.NewGate(s.flagStore())
	_, err = gate.TrySend(ctx, sub.Id, flagExpired, func() error {
		return s.mailer.SendSuspensionNotice(vendor.Email, store.Name)
	})
	return err
}

// cascadeDelete removes the vendor's presence in a fixed order: stores,
// service listings, products, bookings, order flags, conversations, user,
// and finally the subscription row itself. Orders stay for buyer history.
func (s *sweepService) cascadeDelete(ctx context.Context, sub *entity.VendorSubscription, counter *int) error {
	vendor, store, err := s.vendorContext(ctx, sub)
	if err != nil {
		return err
	}
	vendorEmail := ""
	storeName := "your store"
	if vendor != nil {
		vendorEmail = vendor.Email
	}
	if store != nil {
		storeName = store.Name
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if _, err := uow.StoreRepository().DeleteAllByVendor(ctx, sub.VendorId); err != nil {
		return err
	}
	if _, err := uow.ServiceListingRepository().DeleteAllByVendor(ctx, sub.VendorId); err != nil {
		return err
	}
	if _, err := uow.ProductRepository().DeleteAllByVendor(ctx, sub.VendorId); err != nil {
		return err
	}
	if _, err := uow.BookingRepository().DeleteAllByVendor(ctx, sub.VendorId); err != nil {
		return err
	}
	if _, err := uow.OrderRepository().MarkVendorDeletedByVendor(ctx, sub.VendorId); err != nil {
		return err
	}
	if _, err := uow.ConversationRepository().DeleteAllByVendor(ctx, sub.VendorId); err != nil {
		return err
	}
	if err := uow.UserRepository().Delete(ctx, sub.VendorId); err != nil {
		return err
	}
	if err := uow.SubscriptionRepository().Delete(ctx, sub.Id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}
	*counter++

	s.publish(ctx, events.TypeSubscriptionDeleted, sub)

	// Best effort: the account is gone either way.
	if vendorEmail != "" {
		if err := s.mailer.SendDeletionNotice(vendorEmail, storeName); err != nil {
			s.logger.Warn("SweepService", "Deletion notice failed", map[string]interface{}{
				"vendor_id": sub.VendorId,
				"error":     err.Error(),
			})
		}
	}

	return nil
}

func (s *sweepService) CleanupStaleSignups(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-time.Duration(s.billingCfg.SignupTTLMin) * time.Minute)
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SignupIntentRepository().DeleteStale(ctx, cutoff)
}

func (s *sweepService) vendorContext(ctx context.Context, sub *entity.VendorSubscription) (*entity.User, *entity.Store, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	vendor, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: sub.VendorId})
	if err != nil {
		return nil, nil, err
	}
	store, err := uow.StoreRepository().FindOne(ctx, specification.ByID{ID: sub.StoreId})
	if err != nil {
		return nil, nil, err
	}
	return vendor, store, nil
}

func (s *sweepService) publish(ctx context.Context, eventType string, sub *entity.VendorSubscription) {
	if s.eventPublisher == nil {
		return
	}
	now := s.now()
	evt := events.BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"user_id":     sub.VendorId.String(),
			"entity_type": "subscription",
			"entity_id":   sub.Id.String(),
			"expires_at":  sub.ExpiresAt,
			"occurred_at": now,
		},
		OccurredAt: now,
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("SweepService", "Event publish failed", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}

// flagStore adapts the subscription row's sent-marker columns to the
// notification gate contract.
func (s *sweepService) flagStore() notify.FlagStore {
	return &subscriptionFlagStore{uowFactory: s.uowFactory}
}

type subscriptionFlagStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func (f *subscriptionFlagStore) IsSent(ctx context.Context, entityId uuid.UUID, event string) (bool, error) {
	uow := f.uowFactory.NewUnitOfWork(ctx)
	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: entityId})
	if err != nil {
		return false, err
	}
	if sub == nil {
		return false, fmt.Errorf("subscription %s not found", entityId)
	}
	switch event {
	case flagWarn7:
		return sub.Warned7DayAt != nil, nil
	case flagWarn3:
		return sub.Warned3DayAt != nil, nil
	case flagExpired:
		return sub.ExpiredNoticeSentAt != nil, nil
	}
	return false, fmt.Errorf("unknown notification flag %q", event)
}

func (f *subscriptionFlagStore) MarkSent(ctx context.Context, entityId uuid.UUID, event string, at time.Time) error {
	uow := f.uowFactory.NewUnitOfWork(ctx)
	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: entityId})
	if err != nil {
		return err
	}
	if sub == nil {
		return fmt.Errorf("subscription %s not found", entityId)
	}
	switch event {
	case flagWarn7:
		sub.Warned7DayAt = &at
	case flagWarn3:
		sub.Warned3DayAt = &at
	case flagExpired:
		sub.ExpiredNoticeSentAt = &at
	default:
		return fmt.Errorf("unknown notification flag %q", event)
	}
	return uow.SubscriptionRepository().Update(ctx, sub)
}
