package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oasistravel/booking/internal/domain"
)

// NotificationFilter narrows the read-side listing. Zero values mean no
// filtering; Page is 1-based.
type NotificationFilter struct {
	Status domain.NotificationStatus
	Type   domain.NotificationType
	Page   int
	Size   int
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListForUser(ctx context.Context, userID int64, filter NotificationFilter) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Archive(ctx context.Context, id, userID int64) error
	MarkSent(ctx context.Context, id int64) error
}

type PGNotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) NotificationRepository {
	return &PGNotificationRepository{db: db}
}

const notificationColumns = `id, user_id, title_en, title_ar, message_en, message_ar, type, priority, status, data, sent_at, read_at, created_at`

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var n domain.Notification
	if err := row.Scan(&n.ID, &n.UserID, &n.TitleEN, &n.TitleAR, &n.MessageEN, &n.MessageAR, &n.Type, &n.Priority, &n.Status, &n.Data, &n.SentAt, &n.ReadAt, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *PGNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	n.Status = domain.NotificationStatusUnread
	return r.db.QueryRow(ctx, `INSERT INTO notifications (user_id, title_en, title_ar, message_en, message_ar, type, priority, status, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		n.UserID, n.TitleEN, n.TitleAR, n.MessageEN, n.MessageAR, n.Type, n.Priority, n.Status, n.Data).
		Scan(&n.ID, &n.CreatedAt)
}

// ListForUser returns the user's own rows plus broadcast rows (user_id NULL).
// Broadcast fan-out happens here, at read time.
func (r *PGNotificationRepository) ListForUser(ctx context.Context, userID int64, filter NotificationFilter) ([]domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE (user_id=$1 OR user_id IS NULL)`
	args := []any{userID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status=$2`
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		if filter.Status != "" {
			query += ` AND type=$3`
		} else {
			query += ` AND type=$2`
		}
	}
	query += ` ORDER BY created_at DESC`
	if filter.Size > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		args = append(args, filter.Size, (page-1)*filter.Size)
		query += ` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]domain.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *n)
	}
	return notifications, rows.Err()
}

func (r *PGNotificationRepository) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM notifications WHERE (user_id=$1 OR user_id IS NULL) AND status=$2`,
		userID, domain.NotificationStatusUnread).Scan(&count)
	return count, err
}

func (r *PGNotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE notifications SET status=$3, read_at=now() WHERE id=$1 AND user_id=$2 AND status=$4`,
		id, userID, domain.NotificationStatusRead, domain.NotificationStatusUnread)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *PGNotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE notifications SET status=$2, read_at=now() WHERE user_id=$1 AND status=$3`,
		userID, domain.NotificationStatusRead, domain.NotificationStatusUnread)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *PGNotificationRepository) Archive(ctx context.Context, id, userID int64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE notifications SET status=$3 WHERE id=$1 AND user_id=$2 AND status=$4`,
		id, userID, domain.NotificationStatusArchived, domain.NotificationStatusRead)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *PGNotificationRepository) MarkSent(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE notifications SET sent_at=now() WHERE id=$1`, id)
	return err
}

var _ NotificationRepository = (*PGNotificationRepository)(nil)
