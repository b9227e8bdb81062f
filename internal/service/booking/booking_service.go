package booking

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/oasistravel/booking/internal/domain"
	"github.com/oasistravel/booking/internal/repository"
	"github.com/oasistravel/booking/internal/service/notifications"
	"github.com/shopspring/decimal"
)

type BookingUseCase interface {
	Create(ctx context.Context, userID int64, input CreateBookingInput) (*domain.Booking, error)
	GetByID(ctx context.Context, bookingID, callerID int64, callerRole domain.Role) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	Cancel(ctx context.Context, bookingID, callerID int64, callerRole domain.Role) (*domain.Booking, error)
	SetStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) (*domain.Booking, error)
	SendTravelReminders(ctx context.Context, from, to time.Time) (int, error)
	CompletePastBookings(ctx context.Context) ([]domain.Booking, error)
}

type Notifier interface {
	Notify(ctx context.Context, event notifications.Event)
}

// CatalogCache is the slice of the cache the booking flow touches: the cached
// package listing carries availability counts, so it is dropped whenever a
// booking takes or returns slots.
type CatalogCache interface {
	InvalidatePackages(ctx context.Context) error
}

type TravelerInfo struct {
	Name        string `json:"name"`
	Nationality string `json:"nationality,omitempty"`
	PassportNo  string `json:"passport_no,omitempty"`
}

type CreateBookingInput struct {
	PackageID       int64          `json:"package_id"`
	TravelDate      time.Time      `json:"travel_date"`
	TravelersCount  int            `json:"travelers_count"`
	TravelerDetails []TravelerInfo `json:"traveler_details"`
	SpecialRequests string         `json:"special_requests"`
}

type BookingService struct {
	bookings repository.BookingRepository
	packages repository.PackageRepository
	catalog  CatalogCache
	notifier Notifier
}

func NewBookingService(bookings repository.BookingRepository, packages repository.PackageRepository, catalog CatalogCache, notifier Notifier) *BookingService {
	return &BookingService{
		bookings: bookings,
		packages: packages,
		catalog:  catalog,
		notifier: notifier,
	}
}

// Create validates the request against the package, reserves availability and
// persists the pending booking as one atomic unit, then fires the
// booking-created notification. A capacity conflict surfaces as
// ErrInsufficientAvailability with nothing persisted.
func (s *BookingService) Create(ctx context.Context, userID int64, input CreateBookingInput) (*domain.Booking, error) {
	pkg, err := s.packages.GetByID(ctx, input.PackageID)
	if err != nil {
		return nil, err
	}
	if !pkg.IsActive {
		return nil, domain.ErrPackageNotFound
	}
	if input.TravelersCount < pkg.MinTravelers || input.TravelersCount > pkg.MaxTravelers {
		return nil, fmt.Errorf("%w: must be between %d and %d", domain.ErrInvalidTravelersCount, pkg.MinTravelers, pkg.MaxTravelers)
	}

	details, err := json.Marshal(input.TravelerDetails)
	if err != nil {
		return nil, fmt.Errorf("encode traveler details: %w", err)
	}

	booking := &domain.Booking{
		UserID:          userID,
		PackageID:       pkg.ID,
		TravelDate:      input.TravelDate,
		TravelersCount:  input.TravelersCount,
		TravelerDetails: string(details),
		SpecialRequests: input.SpecialRequests,
		// Total price is fixed now; later package price changes do not touch it.
		TotalPrice: pkg.Price.Mul(decimal.NewFromInt(int64(input.TravelersCount))),
		Reference:  generateReference(),
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)

	go s.notifier.Notify(context.WithoutCancel(ctx), notifications.Event{
		Type:   domain.NotificationBookingCreated,
		UserID: &booking.UserID,
		Data: map[string]string{
			"reference":   booking.Reference,
			"travel_date": booking.TravelDate.Format("2006-01-02"),
			"amount":      booking.TotalPrice.StringFixed(2),
		},
	})

	return booking, nil
}

func (s *BookingService) GetByID(ctx context.Context, bookingID, callerID int64, callerRole domain.Role) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != callerID && !callerRole.IsStaff() {
		return nil, domain.ErrForbidden
	}
	return booking, nil
}

func (s *BookingService) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// Cancel flips the booking to cancelled and restores availability. The
// repository performs both in one transaction gated on the current status,
// so a concurrent second cancel loses the race and gets
// ErrInvalidBookingState instead of releasing twice.
func (s *BookingService) Cancel(ctx context.Context, bookingID, callerID int64, callerRole domain.Role) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != callerID && !callerRole.IsStaff() {
		return nil, domain.ErrForbidden
	}
	if !booking.Status.CanCancel() {
		return nil, domain.ErrInvalidBookingState
	}

	cancelled, err := s.bookings.Cancel(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)

	go s.notifier.Notify(context.WithoutCancel(ctx), notifications.Event{
		Type:   domain.NotificationBookingCancelled,
		UserID: &cancelled.UserID,
		Data: map[string]string{
			"reference": cancelled.Reference,
		},
	})

	return cancelled, nil
}

// SetStatus is the staff override used to mark bookings confirmed or
// completed. It validates the state machine but has no availability side
// effects; cancellation must go through Cancel.
func (s *BookingService) SetStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if status == domain.BookingStatusCancelled || !booking.Status.ValidTransition(status) {
		return nil, domain.ErrInvalidBookingState
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, status)
	if err != nil {
		return nil, err
	}

	if status == domain.BookingStatusConfirmed {
		go s.notifier.Notify(context.WithoutCancel(ctx), notifications.Event{
			Type:   domain.NotificationBookingConfirmed,
			UserID: &updated.UserID,
			Data: map[string]string{
				"reference":   updated.Reference,
				"travel_date": updated.TravelDate.Format("2006-01-02"),
			},
		})
	}

	return updated, nil
}

// SendTravelReminders notifies confirmed bookings whose travel date falls in
// [from, to). The worker advances the window between sweeps so a booking is
// reminded once.
func (s *BookingService) SendTravelReminders(ctx context.Context, from, to time.Time) (int, error) {
	due, err := s.bookings.DueForReminder(ctx, from, to)
	if err != nil {
		return 0, err
	}
	for _, b := range due {
		s.notifier.Notify(ctx, notifications.Event{
			Type:   domain.NotificationReminder,
			UserID: &b.UserID,
			Data: map[string]string{
				"reference":   b.Reference,
				"travel_date": b.TravelDate.Format("2006-01-02"),
			},
		})
	}
	return len(due), nil
}

// CompletePastBookings advances confirmed bookings whose travel date has
// passed. No availability side effects: the slots were consumed by travel.
func (s *BookingService) CompletePastBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.CompletePastTravel(ctx, time.Now())
}

// invalidateCatalog drops the cached listing after an availability change so
// the catalog does not serve stale counts for a full TTL. Best-effort: the
// cache expires on its own anyway.
func (s *BookingService) invalidateCatalog(ctx context.Context) {
	if s.catalog == nil {
		return
	}
	if err := s.catalog.InvalidatePackages(ctx); err != nil {
		log.Printf("invalidate package cache: %v", err)
	}
}

const referenceCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateReference returns the human-readable booking reference, e.g.
// DXB4K7Q2N.
func generateReference() string {
	buf := make([]byte, 6)
	rand.Read(buf)
	for i := range buf {
		buf[i] = referenceCharset[int(buf[i])%len(referenceCharset)]
	}
	return "DXB" + string(buf)
}

var _ BookingUseCase = (*BookingService)(nil)
