package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oasistravel/booking/internal/auth"
	"github.com/oasistravel/booking/internal/domain"
	"github.com/oasistravel/booking/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	PackageID       int64                  `json:"package_id" binding:"required"`
	TravelDate      time.Time              `json:"travel_date" binding:"required"`
	TravelersCount  int                    `json:"travelers_count" binding:"required,gt=0"`
	TravelerDetails []booking.TravelerInfo `json:"traveler_details"`
	SpecialRequests string                 `json:"special_requests"`
}

type setBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type bookingResponse struct {
	ID             int64  `json:"booking_id"`
	Reference      string `json:"reference"`
	PackageID      int64  `json:"package_id"`
	TravelDate     string `json:"travel_date"`
	TravelersCount int    `json:"travelers_count"`
	TotalPrice     string `json:"total_price"`
	Status         string `json:"status"`
	PaymentStatus  string `json:"payment_status"`
	CreatedAt      string `json:"created_at"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:             b.ID,
		Reference:      b.Reference,
		PackageID:      b.PackageID,
		TravelDate:     b.TravelDate.Format("2006-01-02"),
		TravelersCount: b.TravelersCount,
		TotalPrice:     b.TotalPrice.StringFixed(2),
		Status:         string(b.Status),
		PaymentStatus:  string(b.PaymentStatus),
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
	}
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id/cancel", h.cancel)
	router.PUT("/:id/status", auth.RequireStaff(), h.setStatus)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.Create(c.Request.Context(), auth.CallerID(c), booking.CreateBookingInput{
		PackageID:       req.PackageID,
		TravelDate:      req.TravelDate,
		TravelersCount:  req.TravelersCount,
		TravelerDetails: req.TravelerDetails,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.ListByUser(c.Request.Context(), auth.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id, auth.CallerID(c), auth.CallerRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	cancelled, err := h.service.Cancel(c.Request.Context(), id, auth.CallerID(c), auth.CallerRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(cancelled))
}

func (h *BookingHandler) setStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req setBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.SetStatus(c.Request.Context(), id, domain.BookingStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}
