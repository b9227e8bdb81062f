package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oasistravel/booking/api"
	"github.com/oasistravel/booking/config"
	"github.com/oasistravel/booking/internal/auth"
	"github.com/oasistravel/booking/internal/service/booking"
	"github.com/oasistravel/booking/internal/service/notifications"
	"github.com/oasistravel/booking/internal/service/packages"
	"github.com/oasistravel/booking/internal/service/payments"
)

type Services struct {
	Packages      packages.PackageUseCase
	Bookings      booking.BookingUseCase
	Payments      payments.PaymentUseCase
	Notifications notifications.NotificationUseCase
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services) error {
	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(cfg, svc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, svc Services) *gin.Engine {
	router := gin.Default()

	packageHandler := api.NewPackageHandler(svc.Packages)
	bookingHandler := api.NewBookingHandler(svc.Bookings)
	paymentHandler := api.NewPaymentHandler(svc.Payments)
	notificationHandler := api.NewNotificationHandler(svc.Notifications)

	v1 := router.Group("/api/v1")

	// Catalog browsing and provider callbacks do not require a session.
	packageHandler.Register(v1.Group("/packages"))
	paymentHandler.RegisterCallbacks(v1.Group("/payments"))

	authed := v1.Group("", auth.Middleware(cfg.Auth.JWTSecret))
	bookingHandler.Register(authed.Group("/bookings"))
	paymentHandler.Register(authed.Group("/payments"))
	notificationHandler.Register(authed.Group("/notifications"))

	return router
}
