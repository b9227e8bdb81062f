package notify

import (
	"context"
	"log"
	"sync"

	"github.com/oasistravel/booking/internal/domain"
	"github.com/oasistravel/booking/internal/kafka"
)

// Deliverer fans one notification event out to the channels the user can
// receive: email when an address exists, SMS when a mobile number exists.
// The attempts run concurrently and independently; a failed channel is
// logged and never affects the other channel or the caller.
type Deliverer struct {
	email EmailSender
	sms   SMSSender
}

func NewDeliverer(email EmailSender, sms SMSSender) *Deliverer {
	return &Deliverer{email: email, sms: sms}
}

func (d *Deliverer) Deliver(ctx context.Context, user *domain.User, event kafka.NotificationEvent) {
	title, message := event.TitleEN, event.MessageEN
	if user.Language == domain.LanguageAR {
		title, message = event.TitleAR, event.MessageAR
	}

	var wg sync.WaitGroup
	if d.email != nil && user.Email != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.email.Send(ctx, user.Email, title, "Dear "+user.Name+",\n\n"+message); err != nil {
				log.Printf("email delivery for notification %d failed: %v", event.NotificationID, err)
			}
		}()
	}
	if d.sms != nil && user.Mobile != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.sms.Send(ctx, user.Mobile, message); err != nil {
				log.Printf("sms delivery for notification %d failed: %v", event.NotificationID, err)
			}
		}()
	}
	wg.Wait()
}
