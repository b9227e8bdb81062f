package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Package availability is the single mutable counter of remaining bookable
// traveler slots. It is decremented on booking creation and incremented on
// cancellation, always through the repository's conditional updates.
type Package struct {
	ID            int64
	TitleEN       string
	TitleAR       string
	DescriptionEN string
	DescriptionAR string
	Price         decimal.Decimal
	Duration      string
	MinTravelers  int
	MaxTravelers  int
	Availability  int
	IsActive      bool
	Featured      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
