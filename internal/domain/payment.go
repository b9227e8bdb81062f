package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodStripe  PaymentMethod = "stripe"
	PaymentMethodPayPal  PaymentMethod = "paypal"
	PaymentMethodPayTabs PaymentMethod = "paytabs"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodStripe, PaymentMethodPayPal, PaymentMethodPayTabs:
		return true
	}
	return false
}

// Payment rows are an append-only history per booking; a booking may carry
// failed attempts before a successful one. A row is immutable once paid or
// failed, except for a later refunded transition.
type Payment struct {
	ID                int64
	BookingID         int64
	Amount            decimal.Decimal
	Currency          string
	Method            PaymentMethod
	Status            PaymentStatus
	ExternalReference string
	FailureReason     string
	CreatedAt         time.Time
	ProcessedAt       *time.Time
}
