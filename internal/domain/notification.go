package domain

import "time"

type NotificationType string

const (
	NotificationBookingCreated    NotificationType = "booking_created"
	NotificationBookingConfirmed  NotificationType = "booking_confirmed"
	NotificationBookingCancelled  NotificationType = "booking_cancelled"
	NotificationPaymentSuccess    NotificationType = "payment_success"
	NotificationPaymentFailed     NotificationType = "payment_failed"
	NotificationReminder          NotificationType = "reminder"
	NotificationAdminAnnouncement NotificationType = "admin_announcement"
)

type NotificationStatus string

const (
	NotificationStatusUnread   NotificationStatus = "unread"
	NotificationStatusRead     NotificationStatus = "read"
	NotificationStatusArchived NotificationStatus = "archived"
)

// Notification priorities, low to urgent.
const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
	PriorityUrgent = 4
)

// Notification is the durable record of one dispatched event. UserID nil
// means broadcast: the row targets every active user and is fanned out at
// read time, not write time.
type Notification struct {
	ID        int64
	UserID    *int64
	TitleEN   string
	TitleAR   string
	MessageEN string
	MessageAR string
	Type      NotificationType
	Priority  int
	Status    NotificationStatus
	Data      string
	SentAt    *time.Time
	ReadAt    *time.Time
	CreatedAt time.Time
}
