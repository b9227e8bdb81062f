package payments

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/oasistravel/booking/internal/domain"
	"github.com/oasistravel/booking/internal/payment"
	"github.com/oasistravel/booking/internal/repository"
	"github.com/oasistravel/booking/internal/service/notifications"
)

type PaymentUseCase interface {
	Create(ctx context.Context, callerID, bookingID int64, method domain.PaymentMethod) (*CreatePaymentResult, error)
	Confirm(ctx context.Context, externalRef string) error
	ListByBooking(ctx context.Context, callerID, bookingID int64, callerRole domain.Role) ([]domain.Payment, error)
}

// CreatePaymentResult pairs the persisted attempt with whatever the client
// needs to finish the provider flow.
type CreatePaymentResult struct {
	Payment       *domain.Payment
	ClientPayload map[string]string
}

type Notifier interface {
	Notify(ctx context.Context, event notifications.Event)
}

type ConfirmationLocker interface {
	AcquireConfirmationLock(ctx context.Context, externalRef string, ttl time.Duration) (bool, error)
	ReleaseConfirmationLock(ctx context.Context, externalRef string) error
}

type PaymentService struct {
	payments repository.PaymentRepository
	bookings repository.BookingRepository
	users    repository.UserRepository
	registry *payment.Registry
	locker   ConfirmationLocker
	notifier Notifier
	currency string
}

func NewPaymentService(
	payments repository.PaymentRepository,
	bookings repository.BookingRepository,
	users repository.UserRepository,
	registry *payment.Registry,
	locker ConfirmationLocker,
	notifier Notifier,
	currency string,
) *PaymentService {
	return &PaymentService{
		payments: payments,
		bookings: bookings,
		users:    users,
		registry: registry,
		locker:   locker,
		notifier: notifier,
		currency: currency,
	}
}

// Create runs one payment attempt for a booking. The duplicate-charge guard
// (an existing paid payment) is checked before any provider is contacted. A
// provider failure lands on the payment row as failed with the reported
// reason; the booking itself is untouched and the user may retry with a new
// attempt.
func (s *PaymentService) Create(ctx context.Context, callerID, bookingID int64, method domain.PaymentMethod) (*CreatePaymentResult, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != callerID {
		return nil, domain.ErrForbidden
	}

	paid, err := s.payments.HasPaid(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if paid {
		return nil, domain.ErrAlreadyPaid
	}

	provider, err := s.registry.Get(method)
	if err != nil {
		return nil, err
	}

	attempt := &domain.Payment{
		BookingID: bookingID,
		Amount:    booking.TotalPrice,
		Currency:  s.currency,
		Method:    method,
	}
	if err := s.payments.Create(ctx, attempt); err != nil {
		return nil, err
	}

	metadata := map[string]string{
		"booking_id":        strconv.FormatInt(booking.ID, 10),
		"booking_reference": booking.Reference,
		"user_id":           strconv.FormatInt(booking.UserID, 10),
	}
	if user, err := s.users.GetByID(ctx, booking.UserID); err == nil {
		metadata["email"] = user.Email
	}

	result, err := provider.Process(ctx, payment.Request{
		Amount:   attempt.Amount,
		Currency: attempt.Currency,
		Metadata: metadata,
	})
	if err != nil {
		if markErr := s.payments.MarkFailed(ctx, attempt.ID, err.Error()); markErr != nil {
			log.Printf("mark payment %d failed: %v", attempt.ID, markErr)
		}
		attempt.Status = domain.PaymentStatusFailed
		attempt.FailureReason = err.Error()

		go s.notifier.Notify(context.WithoutCancel(ctx), notifications.Event{
			Type:   domain.NotificationPaymentFailed,
			UserID: &booking.UserID,
			Data: map[string]string{
				"reference": booking.Reference,
				"amount":    attempt.Amount.StringFixed(2),
				"currency":  attempt.Currency,
			},
		})

		return nil, fmt.Errorf("%w: %s", domain.ErrProviderFailure, err.Error())
	}

	if err := s.payments.SetExternalReference(ctx, attempt.ID, result.Reference); err != nil {
		return nil, err
	}
	attempt.ExternalReference = result.Reference

	return &CreatePaymentResult{
		Payment:       attempt,
		ClientPayload: result.ClientPayload,
	}, nil
}

// Confirm settles a payment identified by its provider reference. The path is
// idempotent end to end: a redis lock drops concurrent duplicates and the
// conditional row update makes any straggler a no-op, so repeated provider
// callbacks for the same reference settle exactly once. A transient failure
// releases the lock so the next callback retry can settle the payment.
func (s *PaymentService) Confirm(ctx context.Context, externalRef string) error {
	locked := false
	if s.locker != nil {
		ok, err := s.locker.AcquireConfirmationLock(ctx, externalRef, 5*time.Minute)
		if err != nil {
			log.Printf("confirmation lock for %s: %v", externalRef, err)
		} else if !ok {
			return nil
		} else {
			locked = true
		}
	}

	settled, err := s.payments.MarkPaidByReference(ctx, externalRef)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			// Unknown reference or already settled; either way nothing to do.
			return nil
		}
		s.releaseLock(ctx, externalRef, locked)
		return err
	}

	booking, err := s.bookings.ConfirmPaid(ctx, settled.BookingID)
	if err != nil {
		s.releaseLock(ctx, externalRef, locked)
		return err
	}

	go s.notifier.Notify(context.WithoutCancel(ctx), notifications.Event{
		Type:   domain.NotificationPaymentSuccess,
		UserID: &booking.UserID,
		Data: map[string]string{
			"reference": booking.Reference,
			"amount":    settled.Amount.StringFixed(2),
			"currency":  settled.Currency,
		},
	})

	return nil
}

// releaseLock frees the confirmation lock after a transient settle failure
// so the provider's next retry is processed instead of dropped until the lock
// TTL expires.
func (s *PaymentService) releaseLock(ctx context.Context, externalRef string, locked bool) {
	if !locked {
		return
	}
	if err := s.locker.ReleaseConfirmationLock(ctx, externalRef); err != nil {
		log.Printf("release confirmation lock for %s: %v", externalRef, err)
	}
}

func (s *PaymentService) ListByBooking(ctx context.Context, callerID, bookingID int64, callerRole domain.Role) ([]domain.Payment, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != callerID && !callerRole.IsStaff() {
		return nil, domain.ErrForbidden
	}
	return s.payments.ListByBooking(ctx, bookingID)
}

var _ PaymentUseCase = (*PaymentService)(nil)
