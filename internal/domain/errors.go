package domain

import "errors"

var (
	ErrPackageNotFound = errors.New("package not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrUserNotFound    = errors.New("user not found")

	ErrNotificationNotFound = errors.New("notification not found")
)

var (
	ErrInsufficientAvailability = errors.New("not enough availability for this package")
	ErrInvalidTravelersCount    = errors.New("travelers count outside package limits")
	ErrInvalidBookingState      = errors.New("booking cannot change to the requested status")
	ErrAlreadyPaid              = errors.New("payment already completed for this booking")
	ErrUnsupportedMethod        = errors.New("unsupported payment method")
	ErrProviderFailure          = errors.New("payment provider error")
)

var ErrForbidden = errors.New("not authorized to access this resource")
