package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"markethub-be/internal/dto"
	"markethub-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingFixture(t *testing.T) (*memStore, IBookingService) {
	t.Helper()
	store := newMemStore()
	svc := NewBookingService(&fakeFactory{store: store}, nil, nopLogger{})
	return store, svc
}

func seedListing(s *memStore, published bool) *entity.ServiceListing {
	l := &entity.ServiceListing{
		Id:          uuid.New(),
		VendorId:    uuid.New(),
		Title:       "Haircut",
		IsPublished: published,
	}
	s.listings[l.Id] = l
	return l
}

func TestCreateBooking(t *testing.T) {
	store, svc := newBookingFixture(t)
	listing := seedListing(store, true)
	customerId := uuid.New()

	res, err := svc.CreateBooking(context.Background(), customerId, &dto.CreateBookingRequest{
		ServiceListingId: listing.Id,
		Date:             "2025-06-10",
		StartMinute:      600,
		EndMinute:        660,
	})
	require.NoError(t, err)
	assert.Equal(t, listing.VendorId, res.ProviderId)
	assert.Equal(t, "2025-06-10", res.Date)
	assert.Equal(t, string(entity.BookingStatusConfirmed), res.Status)
	assert.Len(t, store.bookings, 1)
}

func TestCreateBookingConcurrentSameSlot(t *testing.T) {
	store, svc := newBookingFixture(t)
	listing := seedListing(store, true)

	const racers = 8
	errs := make(chan error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateBooking(context.Background(), uuid.New(), &dto.CreateBookingRequest{
				ServiceListingId: listing.Id, Date: "2025-06-10", StartMinute: 600, EndMinute: 660,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrSlotConflict):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, racers-1, lost)
	assert.Len(t, store.bookings, 1)
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	store, svc := newBookingFixture(t)
	listing := seedListing(store, true)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), &dto.CreateBookingRequest{
		ServiceListingId: listing.Id, Date: "2025-06-10", StartMinute: 600, EndMinute: 660,
	})
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), uuid.New(), &dto.CreateBookingRequest{
		ServiceListingId: listing.Id, Date: "2025-06-10", StartMinute: 630, EndMinute: 690,
	})
	require.ErrorIs(t, err, ErrSlotConflict)
	assert.Len(t, store.bookings, 1)
}

func TestCreateBookingBackToBackSlots(t *testing.T) {
	store, svc := newBookingFixture(t)
	listing := seedListing(store, true)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), &dto.CreateBookingRequest{
		ServiceListingId: listing.Id, Date: "2025-06-10", StartMinute: 600, EndMinute: 660,
	})
	require.NoError(t, err)

	// [600,660) and [660,720) touch but do not overlap.
	_, err = svc.CreateBooking(context.Background(), uuid.New(), &dto.CreateBookingRequest{
		ServiceListingId: listing.Id, Date: "2025-06-10", StartMinute: 660, EndMinute: 720,
	})
	require.NoError(t, err)
	assert.Len(t, store.bookings, 2)
}

func TestCreateBookingCancelledSlotReusable(t *testing.T) {
	store, svc := newBookingFixture(t)
	listing := seedListing(store, true)
	customerId := uuid.New()

	first, err := svc.CreateBooking(context.Background(), customerId, &dto.CreateBookingRequest{
		ServiceListingId: listing.Id, Date: "2025-06-10", StartMinute: 600, EndMinute: 660,
	})
	require.NoError(t, err)
	require.NoError(t, svc.CancelBooking(context.Background(), customerId, first.Id))

	_, err = svc.CreateBooking(context.Background(), uuid.New(), &dto.CreateBookingRequest{
		ServiceListingId: listing.Id, Date: "2025-06-10", StartMinute: 600, EndMinute: 660,
	})
	require.NoError(t, err)
}

func TestCreateBookingUnpublishedListing(t *testing.T) {
	store, svc := newBookingFixture(t)
	listing := seedListing(store, false)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), &dto.CreateBookingRequest{
		ServiceListingId: listing.Id, Date: "2025-06-10", StartMinute: 600, EndMinute: 660,
	})
	require.Error(t, err)
}

func TestCancelBookingOwnership(t *testing.T) {
	store, svc := newBookingFixture(t)
	listing := seedListing(store, true)
	customerId := uuid.New()

	res, err := svc.CreateBooking(context.Background(), customerId, &dto.CreateBookingRequest{
		ServiceListingId: listing.Id, Date: "2025-06-10", StartMinute: 600, EndMinute: 660,
	})
	require.NoError(t, err)

	require.Error(t, svc.CancelBooking(context.Background(), uuid.New(), res.Id))
	require.NoError(t, svc.CancelBooking(context.Background(), customerId, res.Id))
	assert.Equal(t, entity.BookingStatusCancelled, store.bookings[res.Id].Status)
}

func TestListProviderDay(t *testing.T) {
	store, svc := newBookingFixture(t)
	listing := seedListing(store, true)
	day, _ := time.Parse("2006-01-02", "2025-06-10")

	for _, slot := range [][2]int{{540, 600}, {600, 660}} {
		_, err := svc.CreateBooking(context.Background(), uuid.New(), &dto.CreateBookingRequest{
			ServiceListingId: listing.Id, Date: "2025-06-10", StartMinute: slot[0], EndMinute: slot[1],
		})
		require.NoError(t, err)
	}
	// A different day stays out of the listing.
	_, err := svc.CreateBooking(context.Background(), uuid.New(), &dto.CreateBookingRequest{
		ServiceListingId: listing.Id, Date: "2025-06-11", StartMinute: 540, EndMinute: 600,
	})
	require.NoError(t, err)

	res, err := svc.ListProviderDay(context.Background(), listing.VendorId, day)
	require.NoError(t, err)
	assert.Len(t, res, 2)
}
