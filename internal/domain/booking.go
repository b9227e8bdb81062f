package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// CanCancel reports whether a booking in this status may still be cancelled.
// Cancelled and completed are terminal.
func (s BookingStatus) CanCancel() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// ValidTransition enforces the booking state machine:
// pending -> {confirmed, cancelled}, confirmed -> {cancelled, completed}.
func (s BookingStatus) ValidTransition(to BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return to == BookingStatusConfirmed || to == BookingStatusCancelled
	case BookingStatusConfirmed:
		return to == BookingStatusCancelled || to == BookingStatusCompleted
	default:
		return false
	}
}

type Booking struct {
	ID              int64
	UserID          int64
	PackageID       int64
	TravelDate      time.Time
	TravelersCount  int
	TravelerDetails string
	SpecialRequests string
	TotalPrice      decimal.Decimal
	Status          BookingStatus
	PaymentStatus   PaymentStatus
	Reference       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
