package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/oasistravel/booking/internal/domain"
)

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
	}
	return id, err
}

// respondError maps domain errors onto HTTP statuses. Capacity conflicts and
// state violations are business rejections (409), not server faults.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrPackageNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrNotificationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrInsufficientAvailability),
		errors.Is(err, domain.ErrInvalidBookingState),
		errors.Is(err, domain.ErrAlreadyPaid):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidTravelersCount),
		errors.Is(err, domain.ErrUnsupportedMethod):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrProviderFailure):
		status = http.StatusPaymentRequired
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
