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
	"github.com/oasistravel/booking/internal/bootstrap"
	"github.com/oasistravel/booking/internal/cache"
	"github.com/oasistravel/booking/internal/kafka"
	"github.com/oasistravel/booking/internal/payment"
	"github.com/oasistravel/booking/internal/repository"
	"github.com/oasistravel/booking/internal/service/booking"
	"github.com/oasistravel/booking/internal/service/notifications"
	"github.com/oasistravel/booking/internal/service/packages"
	"github.com/oasistravel/booking/internal/service/payments"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.PackagesCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	packageRepo := repository.NewPackageRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	providerClient := &http.Client{Timeout: time.Duration(cfg.Payments.TimeoutSeconds) * time.Second}
	registry := payment.NewRegistry(
		payment.NewStripeProvider(cfg.Payments.Stripe, providerClient),
		payment.NewPayPalProvider(cfg.Payments.PayPal, providerClient),
		payment.NewPayTabsProvider(cfg.Payments.PayTabs, providerClient),
	)

	notificationService := notifications.NewNotificationService(notificationRepo, producer, cfg.Kafka.NotificationsTopic)
	packageService := packages.NewPackageService(packageRepo, redisCache)
	bookingService := booking.NewBookingService(bookingRepo, packageRepo, redisCache, notificationService)
	paymentService := payments.NewPaymentService(
		paymentRepo,
		bookingRepo,
		userRepo,
		registry,
		redisCache,
		notificationService,
		cfg.Payments.Currency,
	)

	svc := bootstrap.Services{
		Packages:      packageService,
		Bookings:      bookingService,
		Payments:      paymentService,
		Notifications: notificationService,
	}

	if err := bootstrap.Run(ctx, cfg, svc); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
