package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/oasistravel/booking/config"
	"github.com/oasistravel/booking/internal/domain"
	"github.com/oasistravel/booking/internal/kafka"
	"github.com/oasistravel/booking/internal/notify"
	"github.com/oasistravel/booking/internal/repository"
	"github.com/oasistravel/booking/internal/service/booking"
	"github.com/oasistravel/booking/internal/service/notifications"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	packageRepo := repository.NewPackageRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	notificationService := notifications.NewNotificationService(notificationRepo, producer, cfg.Kafka.NotificationsTopic)
	// Reminder and completion sweeps never move availability, so the worker
	// runs without the catalog cache.
	bookingService := booking.NewBookingService(bookingRepo, packageRepo, nil, notificationService)

	smsClient := &http.Client{Timeout: 10 * time.Second}
	deliverer := notify.NewDeliverer(
		notify.NewSMTPSender(cfg.Notifications.SMTP),
		notify.NewTwilioSender(cfg.Notifications.SMS, smsClient),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	go runConsumer(ctx, consumer, func(ctx context.Context, event kafka.NotificationEvent) error {
		deliver(ctx, userRepo, notificationRepo, deliverer, event)
		return nil
	}, time.Second)

	reminderTicker := time.NewTicker(time.Duration(cfg.Worker.ReminderSweepMinutes) * time.Minute)
	defer reminderTicker.Stop()
	completionTicker := time.NewTicker(time.Duration(cfg.Worker.CompletionSweepMinutes) * time.Minute)
	defer completionTicker.Stop()

	// Reminder sweeps cover adjacent non-overlapping windows so a booking is
	// reminded exactly once even across ticks.
	window := time.Duration(cfg.Worker.ReminderWindowHours) * time.Hour
	reminderFrom := time.Now().Add(window)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-reminderTicker.C:
			reminderTo := time.Now().Add(window)
			if !reminderTo.After(reminderFrom) {
				continue
			}
			sent, err := bookingService.SendTravelReminders(ctx, reminderFrom, reminderTo)
			if err != nil {
				log.Printf("travel reminders error: %v", err)
				continue
			}
			reminderFrom = reminderTo
			if sent > 0 {
				log.Printf("sent %d travel reminders", sent)
			}
		case <-completionTicker.C:
			completed, err := bookingService.CompletePastBookings(ctx)
			if err != nil {
				log.Printf("complete bookings error: %v", err)
				continue
			}
			if len(completed) > 0 {
				log.Printf("completed %d bookings", len(completed))
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}

type eventSource interface {
	Consume(ctx context.Context, handler kafka.EventHandler) error
}

// runConsumer keeps the delivery stream alive across transient reader
// failures, backing off between reconnect attempts. It returns once ctx is
// cancelled.
func runConsumer(ctx context.Context, src eventSource, handler kafka.EventHandler, backoff time.Duration) {
	for {
		err := src.Consume(ctx, handler)
		if ctx.Err() != nil {
			return
		}
		log.Printf("consumer stopped: %v, restarting in %s", err, backoff)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

// deliver resolves the recipients of one event and fans out. A nil user id is
// an announcement for every active user.
func deliver(
	ctx context.Context,
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	deliverer *notify.Deliverer,
	event kafka.NotificationEvent,
) {
	var recipients []domain.User
	if event.UserID != nil {
		user, err := users.GetByID(ctx, *event.UserID)
		if err != nil {
			log.Printf("load user %d for notification %d: %v", *event.UserID, event.NotificationID, err)
			return
		}
		recipients = []domain.User{*user}
	} else {
		all, err := users.ListActive(ctx)
		if err != nil {
			log.Printf("load recipients for broadcast %d: %v", event.NotificationID, err)
			return
		}
		recipients = all
	}

	for i := range recipients {
		deliverer.Deliver(ctx, &recipients[i], event)
	}

	if err := notifications.MarkSent(ctx, event.NotificationID); err != nil {
		log.Printf("mark notification %d sent: %v", event.NotificationID, err)
	}
}
