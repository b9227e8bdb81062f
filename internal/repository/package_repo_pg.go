package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oasistravel/booking/internal/domain"
)

type PackageRepository interface {
	List(ctx context.Context) ([]domain.Package, error)
	GetByID(ctx context.Context, id int64) (*domain.Package, error)
}

type PGPackageRepository struct {
	db *pgxpool.Pool
}

func NewPackageRepository(db *pgxpool.Pool) PackageRepository {
	return &PGPackageRepository{db: db}
}

const packageColumns = `id, title_en, title_ar, description_en, description_ar, price, duration, min_travelers, max_travelers, availability, is_active, featured, created_at, updated_at`

func scanPackage(row pgx.Row) (*domain.Package, error) {
	var p domain.Package
	if err := row.Scan(&p.ID, &p.TitleEN, &p.TitleAR, &p.DescriptionEN, &p.DescriptionAR, &p.Price, &p.Duration, &p.MinTravelers, &p.MaxTravelers, &p.Availability, &p.IsActive, &p.Featured, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PGPackageRepository) List(ctx context.Context) ([]domain.Package, error) {
	rows, err := r.db.Query(ctx, `SELECT `+packageColumns+` FROM packages WHERE is_active ORDER BY featured DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	packages := make([]domain.Package, 0)
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		packages = append(packages, *p)
	}
	return packages, rows.Err()
}

func (r *PGPackageRepository) GetByID(ctx context.Context, id int64) (*domain.Package, error) {
	p, err := scanPackage(r.db.QueryRow(ctx, `SELECT `+packageColumns+` FROM packages WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPackageNotFound
	}
	return p, err
}

// pgExecer is satisfied by both the pool and a transaction, so the
// availability updates below can run standalone or inside a booking
// transaction.
type pgExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// reservePackageSlots decrements availability by count only when enough
// slots remain. The conditional update is the serialization point: two
// concurrent reserves that together exceed the remaining slots cannot both
// match the predicate.
func reservePackageSlots(ctx context.Context, db pgExecer, packageID int64, count int) error {
	cmd, err := db.Exec(ctx, `UPDATE packages SET availability = availability - $2, updated_at = now() WHERE id=$1 AND is_active AND availability >= $2`, packageID, count)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInsufficientAvailability
	}
	return nil
}

// releasePackageSlots returns count slots to the package. Callers gate on
// the booking status transition so a cancelled booking releases exactly once.
func releasePackageSlots(ctx context.Context, db pgExecer, packageID int64, count int) error {
	cmd, err := db.Exec(ctx, `UPDATE packages SET availability = availability + $2, updated_at = now() WHERE id=$1`, packageID, count)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrPackageNotFound
	}
	return nil
}

var (
	_ PackageRepository = (*PGPackageRepository)(nil)
	_ pgExecer          = (*pgxpool.Pool)(nil)
	_ pgExecer          = (pgx.Tx)(nil)
)
