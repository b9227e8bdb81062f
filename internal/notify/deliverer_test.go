package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/oasistravel/booking/internal/domain"
	"github.com/oasistravel/booking/internal/kafka"
	"github.com/stretchr/testify/assert"
)

type stubEmailSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (s *stubEmailSender) Send(ctx context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to)
	return s.err
}

type stubSMSSender struct {
	mu     sync.Mutex
	sent   []string
	bodies []string
	err    error
}

func (s *stubSMSSender) Send(ctx context.Context, to, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to)
	s.bodies = append(s.bodies, body)
	return s.err
}

func sampleEvent() kafka.NotificationEvent {
	return kafka.NotificationEvent{
		NotificationID: 9,
		TitleEN:        "Booking Confirmed!",
		TitleAR:        "تم تأكيد الحجز!",
		MessageEN:      "Your booking DXB4K7Q2N is confirmed.",
		MessageAR:      "تم تأكيد حجزك DXB4K7Q2N.",
	}
}

func TestDeliverer_EmailFailureDoesNotBlockSMS(t *testing.T) {
	email := &stubEmailSender{err: errors.New("smtp refused")}
	sms := &stubSMSSender{}
	d := NewDeliverer(email, sms)

	user := &domain.User{Name: "Ahmed", Email: "ahmed@example.com", Mobile: "+971501234567", Language: domain.LanguageEN}
	d.Deliver(context.Background(), user, sampleEvent())

	// The failed channel is logged; the other one still goes out.
	assert.Equal(t, []string{"ahmed@example.com"}, email.sent)
	assert.Equal(t, []string{"+971501234567"}, sms.sent)
}

func TestDeliverer_SkipsMissingDestinations(t *testing.T) {
	email := &stubEmailSender{}
	sms := &stubSMSSender{}
	d := NewDeliverer(email, sms)

	d.Deliver(context.Background(), &domain.User{Name: "Sara", Email: "sara@example.com"}, sampleEvent())

	assert.Len(t, email.sent, 1)
	assert.Empty(t, sms.sent)
}

func TestDeliverer_ArabicUserGetsArabicBody(t *testing.T) {
	sms := &stubSMSSender{}
	d := NewDeliverer(nil, sms)

	user := &domain.User{Name: "Omar", Mobile: "+971509876543", Language: domain.LanguageAR}
	d.Deliver(context.Background(), user, sampleEvent())

	assert.Equal(t, []string{"تم تأكيد حجزك DXB4K7Q2N."}, sms.bodies)
}
