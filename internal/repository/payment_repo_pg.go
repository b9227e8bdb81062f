package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oasistravel/booking/internal/domain"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error)
	HasPaid(ctx context.Context, bookingID int64) (bool, error)
	SetExternalReference(ctx context.Context, id int64, ref string) error
	MarkFailed(ctx context.Context, id int64, reason string) error
	MarkPaidByReference(ctx context.Context, externalRef string) (*domain.Payment, error)
}

type PGPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) PaymentRepository {
	return &PGPaymentRepository{db: db}
}

const paymentColumns = `id, booking_id, amount, currency, method, status, external_reference, failure_reason, created_at, processed_at`

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	if err := row.Scan(&p.ID, &p.BookingID, &p.Amount, &p.Currency, &p.Method, &p.Status, &p.ExternalReference, &p.FailureReason, &p.CreatedAt, &p.ProcessedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PGPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	payment.Status = domain.PaymentStatusPending
	return r.db.QueryRow(ctx, `INSERT INTO payments (booking_id, amount, currency, method, status, external_reference, failure_reason)
		VALUES ($1, $2, $3, $4, $5, '', '')
		RETURNING id, created_at`,
		payment.BookingID, payment.Amount, payment.Currency, payment.Method, payment.Status).
		Scan(&payment.ID, &payment.CreatedAt)
}

func (r *PGPaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	p, err := scanPayment(r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	return p, err
}

func (r *PGPaymentRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	rows, err := r.db.Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE booking_id=$1 ORDER BY created_at`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func (r *PGPaymentRepository) HasPaid(ctx context.Context, bookingID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE booking_id=$1 AND status=$2)`, bookingID, domain.PaymentStatusPaid).Scan(&exists)
	return exists, err
}

func (r *PGPaymentRepository) SetExternalReference(ctx context.Context, id int64, ref string) error {
	_, err := r.db.Exec(ctx, `UPDATE payments SET external_reference=$2 WHERE id=$1`, id, ref)
	return err
}

// MarkFailed only moves a pending attempt to failed; paid rows are immutable.
func (r *PGPaymentRepository) MarkFailed(ctx context.Context, id int64, reason string) error {
	_, err := r.db.Exec(ctx, `UPDATE payments SET status=$2, failure_reason=$3, processed_at=now() WHERE id=$1 AND status=$4`,
		id, domain.PaymentStatusFailed, reason, domain.PaymentStatusPending)
	return err
}

// MarkPaidByReference settles the attempt that carries the provider
// reference. The status predicate makes repeated confirmation callbacks
// no-ops: only the first call matches a pending row.
func (r *PGPaymentRepository) MarkPaidByReference(ctx context.Context, externalRef string) (*domain.Payment, error) {
	p, err := scanPayment(r.db.QueryRow(ctx, `UPDATE payments SET status=$2, processed_at=now() WHERE external_reference=$1 AND status=$3 RETURNING `+paymentColumns,
		externalRef, domain.PaymentStatusPaid, domain.PaymentStatusPending))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	return p, err
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
