package notifications

import (
	"context"
	"encoding/json"
	"log"
	"strconv"

	"github.com/oasistravel/booking/internal/domain"
	"github.com/oasistravel/booking/internal/kafka"
	"github.com/oasistravel/booking/internal/notify"
	"github.com/oasistravel/booking/internal/repository"
)

// Event is one logical notification to fan out. UserID nil means broadcast.
// Data feeds template placeholder substitution and is kept on the row.
type Event struct {
	Type   domain.NotificationType
	UserID *int64
	Data   map[string]string
}

type NotificationUseCase interface {
	Notify(ctx context.Context, event Event)
	ListForUser(ctx context.Context, userID int64, filter repository.NotificationFilter) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Archive(ctx context.Context, id, userID int64) error
}

type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

// publishMaxRetries bounds the kafka publish attempts per notification. The
// row is already durable, so giving up only delays delivery.
const publishMaxRetries = 3

type NotificationService struct {
	notifications repository.NotificationRepository
	producer      Producer
	topic         string
}

func NewNotificationService(notifications repository.NotificationRepository, producer Producer, topic string) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		producer:      producer,
		topic:         topic,
	}
}

// Notify persists the notification row and hands delivery to the worker via
// kafka. It never reports failure to the caller: the triggering business
// operation has already committed and must not be rolled back or failed by
// a side channel. Errors are logged and swallowed here.
func (s *NotificationService) Notify(ctx context.Context, event Event) {
	tpl, ok := notify.Render(event.Type, event.Data)
	if !ok {
		log.Printf("no template for notification type %q, event dropped", event.Type)
		return
	}

	data := ""
	if len(event.Data) > 0 {
		raw, err := json.Marshal(event.Data)
		if err != nil {
			log.Printf("marshal notification data: %v", err)
		} else {
			data = string(raw)
		}
	}

	n := &domain.Notification{
		UserID:    event.UserID,
		TitleEN:   tpl.TitleEN,
		TitleAR:   tpl.TitleAR,
		MessageEN: tpl.MessageEN,
		MessageAR: tpl.MessageAR,
		Type:      event.Type,
		Priority:  tpl.Priority,
		Data:      data,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		log.Printf("persist %s notification failed: %v", event.Type, err)
		return
	}

	if s.producer == nil || s.topic == "" {
		return
	}
	msg := kafka.NotificationEvent{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Type:           string(n.Type),
		TitleEN:        n.TitleEN,
		TitleAR:        n.TitleAR,
		MessageEN:      n.MessageEN,
		MessageAR:      n.MessageAR,
		Priority:       n.Priority,
		Data:           n.Data,
	}
	if err := s.producer.PublishWithRetry(ctx, s.topic, strconv.FormatInt(n.ID, 10), msg, publishMaxRetries); err != nil {
		// The row is the durable source of truth; delivery is best-effort.
		log.Printf("publish notification %d failed: %v", n.ID, err)
	}
}

func (s *NotificationService) ListForUser(ctx context.Context, userID int64, filter repository.NotificationFilter) ([]domain.Notification, error) {
	return s.notifications.ListForUser(ctx, userID, filter)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.notifications.UnreadCount(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID int64) error {
	return s.notifications.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.notifications.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Archive(ctx context.Context, id, userID int64) error {
	return s.notifications.Archive(ctx, id, userID)
}

var _ NotificationUseCase = (*NotificationService)(nil)
