package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oasistravel/booking/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	Cancel(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	ConfirmPaid(ctx context.Context, id int64) (*domain.Booking, error)
	DueForReminder(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
	CompletePastTravel(ctx context.Context, before time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, user_id, package_id, travel_date, travelers_count, traveler_details, special_requests, total_price, status, payment_status, reference, created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.PackageID, &b.TravelDate, &b.TravelersCount, &b.TravelerDetails, &b.SpecialRequests, &b.TotalPrice, &b.Status, &b.PaymentStatus, &b.Reference, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create reserves availability and inserts the pending booking in one
// transaction: either the slots are taken and the booking exists, or neither.
func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := reservePackageSlots(ctx, tx, booking.PackageID, booking.TravelersCount); err != nil {
		return err
	}

	booking.Status = domain.BookingStatusPending
	booking.PaymentStatus = domain.PaymentStatusPending
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (user_id, package_id, travel_date, travelers_count, traveler_details, special_requests, total_price, status, payment_status, reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		booking.UserID, booking.PackageID, booking.TravelDate, booking.TravelersCount, booking.TravelerDetails, booking.SpecialRequests, booking.TotalPrice, booking.Status, booking.PaymentStatus, booking.Reference).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	return b, err
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// Cancel flips the booking to cancelled and releases its slots in one
// transaction. The status predicate makes the transition race-safe: a second
// cancel attempt matches zero rows and the release never applies twice.
func (r *PGBookingRepository) Cancel(ctx context.Context, id int64) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	b, err := scanBooking(tx.QueryRow(ctx, `UPDATE bookings SET status=$2, updated_at=now() WHERE id=$1 AND status = ANY($3) RETURNING `+bookingColumns,
		id, domain.BookingStatusCancelled, []domain.BookingStatus{domain.BookingStatusPending, domain.BookingStatusConfirmed}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidBookingState
		}
		return nil, err
	}

	if err := releasePackageSlots(ctx, tx, b.PackageID, b.TravelersCount); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateStatus is the admin override path. It validates the transition but
// never touches package availability.
func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `UPDATE bookings SET status=$2, updated_at=now() WHERE id=$1 RETURNING `+bookingColumns, id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	return b, err
}

// ConfirmPaid marks the booking paid and advances pending to confirmed.
// Idempotent: repeating it leaves an already-paid booking unchanged.
func (r *PGBookingRepository) ConfirmPaid(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `UPDATE bookings SET payment_status=$2,
		status = CASE WHEN status=$3 THEN $4 ELSE status END,
		updated_at=now() WHERE id=$1 RETURNING `+bookingColumns,
		id, domain.PaymentStatusPaid, domain.BookingStatusPending, domain.BookingStatusConfirmed))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	return b, err
}

func (r *PGBookingRepository) DueForReminder(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE status=$1 AND travel_date >= $2 AND travel_date < $3`,
		domain.BookingStatusConfirmed, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *PGBookingRepository) CompletePastTravel(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE status=$2 AND travel_date < $3 RETURNING `+bookingColumns,
		domain.BookingStatusCompleted, domain.BookingStatusConfirmed, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
