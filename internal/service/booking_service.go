package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"markethub-be/internal/dto"
	"markethub-be/internal/entity"
	"markethub-be/internal/pkg/logger"
	"markethub-be/internal/repository/contract"
	"markethub-be/internal/repository/specification"
	"markethub-be/internal/repository/unitofwork"

	"markethub-be/pkg/booking"
	"markethub-be/pkg/events"
	pktNats "markethub-be/pkg/nats"

	"github.com/google/uuid"
)

// ErrSlotConflict is surfaced to callers as a 409.
var ErrSlotConflict = errors.New("requested slot overlaps an existing booking")

type IBookingService interface {
	CreateBooking(ctx context.Context, customerId uuid.UUID, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	CancelBooking(ctx context.Context, customerId, bookingId uuid.UUID) error
	ListProviderDay(ctx context.Context, providerId uuid.UUID, day time.Time) ([]*dto.BookingResponse, error)
}

type bookingService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewBookingService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher, log logger.ILogger) IBookingService {
	return &bookingService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, customerId uuid.UUID, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	listings, err := uow.ServiceListingRepository().FindAll(ctx, specification.ByID{ID: req.ServiceListingId})
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, errors.New("service listing not found")
	}
	listing := listings[0]
	if !listing.IsPublished {
		return nil, errors.New("service listing is not available")
	}

	// Advisory pre-check against the slots already on the books. The
	// persistence layer re-checks under a row lock, so two racing
	// requests cannot both slip past this.
	existing, err := uow.BookingRepository().FindAllForProviderDay(ctx, listing.VendorId, day)
	if err != nil {
		return nil, err
	}
	conflict, err := booking.CheckConflict(day, req.StartMinute, req.EndMinute, existing)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, ErrSlotConflict
	}

	b := &entity.Booking{
		Id:          uuid.New(),
		ProviderId:  listing.VendorId,
		CustomerId:  customerId,
		ServiceId:   listing.Id,
		Date:        day,
		StartMinute: req.StartMinute,
		EndMinute:   req.EndMinute,
		Status:      entity.BookingStatusConfirmed,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := uow.BookingRepository().CreateIfFree(ctx, b); err != nil {
		if errors.Is(err, contract.ErrSlotTaken) {
			return nil, ErrSlotConflict
		}
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeBookingCreated,
			Data: map[string]interface{}{
				"user_id":     listing.VendorId.String(),
				"entity_type": "booking",
				"entity_id":   b.Id.String(),
				"date":        req.Date,
				"occurred_at": time.Now(),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("BookingService", "Failed to publish booking event", map[string]interface{}{"error": err.Error()})
		}
	}

	return toBookingResponse(b), nil
}

func (s *bookingService) CancelBooking(ctx context.Context, customerId, bookingId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	b, err := uow.BookingRepository().FindOne(ctx, specification.ByID{ID: bookingId})
	if err != nil {
		return err
	}
	if b == nil {
		return errors.New("booking not found")
	}
	if b.CustomerId != customerId {
		return errors.New("booking belongs to another customer")
	}
	if !b.Status.CanTransitionTo(entity.BookingStatusCancelled) {
		return fmt.Errorf("booking in status %s cannot be cancelled", b.Status)
	}

	b.Status = entity.BookingStatusCancelled
	b.UpdatedAt = time.Now()
	return uow.BookingRepository().Update(ctx, b)
}

func (s *bookingService) ListProviderDay(ctx context.Context, providerId uuid.UUID, day time.Time) ([]*dto.BookingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	bookings, err := uow.BookingRepository().FindAllForProviderDay(ctx, providerId, day)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		res = append(res, toBookingResponse(b))
	}
	return res, nil
}

func toBookingResponse(b *entity.Booking) *dto.BookingResponse {
	return &dto.BookingResponse{
		Id:          b.Id,
		ProviderId:  b.ProviderId,
		Date:        b.Date.Format("2006-01-02"),
		StartMinute: b.StartMinute,
		EndMinute:   b.EndMinute,
		Status:      string(b.Status),
	}
}
