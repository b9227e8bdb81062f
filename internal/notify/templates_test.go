package notify

import (
	"testing"

	"github.com/oasistravel/booking/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRender_Substitution(t *testing.T) {
	tpl, ok := Render(domain.NotificationPaymentSuccess, map[string]string{
		"reference": "DXB4K7Q2N",
		"amount":    "1499.70",
		"currency":  "AED",
	})

	assert.True(t, ok)
	assert.Equal(t, "Your payment of AED 1499.70 for booking DXB4K7Q2N has been processed successfully.", tpl.MessageEN)
	assert.Contains(t, tpl.MessageAR, "DXB4K7Q2N")
	assert.Contains(t, tpl.MessageAR, "1499.70")
	assert.Equal(t, domain.PriorityHigh, tpl.Priority)
}

func TestRender_MissingPlaceholderStaysLiteral(t *testing.T) {
	tpl, ok := Render(domain.NotificationBookingConfirmed, map[string]string{
		"reference": "DXB4K7Q2N",
	})

	assert.True(t, ok)
	assert.Contains(t, tpl.MessageEN, "DXB4K7Q2N")
	assert.Contains(t, tpl.MessageEN, "{travel_date}")
}

func TestRender_UnknownType(t *testing.T) {
	_, ok := Render(domain.NotificationType("mystery"), nil)
	assert.False(t, ok)
}

func TestRender_AllTypesHaveBothLanguages(t *testing.T) {
	types := []domain.NotificationType{
		domain.NotificationBookingCreated,
		domain.NotificationBookingConfirmed,
		domain.NotificationBookingCancelled,
		domain.NotificationPaymentSuccess,
		domain.NotificationPaymentFailed,
		domain.NotificationReminder,
		domain.NotificationAdminAnnouncement,
	}

	for _, typ := range types {
		tpl, ok := Render(typ, nil)
		assert.True(t, ok, string(typ))
		assert.NotEmpty(t, tpl.TitleEN, string(typ))
		assert.NotEmpty(t, tpl.TitleAR, string(typ))
		assert.NotEmpty(t, tpl.MessageEN, string(typ))
		assert.NotEmpty(t, tpl.MessageAR, string(typ))
		assert.NotZero(t, tpl.Priority, string(typ))
	}
}
