package notify

import (
	"strings"

	"github.com/oasistravel/booking/internal/domain"
)

// Template holds one bilingual notification text pair. Placeholders use
// {name} syntax and are substituted from the event payload; a placeholder
// with no matching key stays literal rather than failing the render.
type Template struct {
	TitleEN   string
	TitleAR   string
	MessageEN string
	MessageAR string
	Priority  int
}

var templates = map[domain.NotificationType]Template{
	domain.NotificationBookingCreated: {
		TitleEN:   "Booking Received",
		TitleAR:   "تم استلام الحجز",
		MessageEN: "Your booking {reference} for {travel_date} has been received. Complete the payment to confirm it.",
		MessageAR: "تم استلام حجزك رقم {reference} بتاريخ {travel_date}. يرجى إتمام الدفع لتأكيده.",
		Priority:  domain.PriorityHigh,
	},
	domain.NotificationBookingConfirmed: {
		TitleEN:   "Booking Confirmed!",
		TitleAR:   "تم تأكيد الحجز!",
		MessageEN: "Your booking {reference} has been confirmed. Travel date: {travel_date}.",
		MessageAR: "تم تأكيد حجزك رقم {reference}. تاريخ السفر: {travel_date}.",
		Priority:  domain.PriorityHigh,
	},
	domain.NotificationBookingCancelled: {
		TitleEN:   "Booking Cancelled",
		TitleAR:   "تم إلغاء الحجز",
		MessageEN: "Your booking {reference} has been cancelled.",
		MessageAR: "تم إلغاء حجزك رقم {reference}.",
		Priority:  domain.PriorityHigh,
	},
	domain.NotificationPaymentSuccess: {
		TitleEN:   "Payment Successful!",
		TitleAR:   "تم الدفع بنجاح!",
		MessageEN: "Your payment of {currency} {amount} for booking {reference} has been processed successfully.",
		MessageAR: "تم معالجة دفعتك بقيمة {amount} {currency} لحجز {reference} بنجاح.",
		Priority:  domain.PriorityHigh,
	},
	domain.NotificationPaymentFailed: {
		TitleEN:   "Payment Failed",
		TitleAR:   "فشل في الدفع",
		MessageEN: "Your payment of {currency} {amount} could not be processed. Please try again.",
		MessageAR: "لم يتم معالجة دفعتك بقيمة {amount} {currency}. يرجى المحاولة مرة أخرى.",
		Priority:  domain.PriorityHigh,
	},
	domain.NotificationReminder: {
		TitleEN:   "Travel Reminder",
		TitleAR:   "تذكير السفر",
		MessageEN: "Your trip {reference} departs on {travel_date}. Please have your documents ready and arrive on time.",
		MessageAR: "رحلتك رقم {reference} تنطلق بتاريخ {travel_date}. يرجى تجهيز مستنداتك والوصول في الوقت المحدد.",
		Priority:  domain.PriorityHigh,
	},
	domain.NotificationAdminAnnouncement: {
		TitleEN:   "Important Announcement",
		TitleAR:   "إعلان مهم",
		MessageEN: "{message}",
		MessageAR: "{message}",
		Priority:  domain.PriorityMedium,
	},
}

// Render produces the bilingual content for an event type with payload
// substitution applied to every field.
func Render(eventType domain.NotificationType, data map[string]string) (Template, bool) {
	tpl, ok := templates[eventType]
	if !ok {
		return Template{}, false
	}
	tpl.TitleEN = substitute(tpl.TitleEN, data)
	tpl.TitleAR = substitute(tpl.TitleAR, data)
	tpl.MessageEN = substitute(tpl.MessageEN, data)
	tpl.MessageAR = substitute(tpl.MessageAR, data)
	return tpl, true
}

func substitute(text string, data map[string]string) string {
	for key, value := range data {
		text = strings.ReplaceAll(text, "{"+key+"}", value)
	}
	return text
}
