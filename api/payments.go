package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oasistravel/booking/internal/auth"
	"github.com/oasistravel/booking/internal/domain"
	"github.com/oasistravel/booking/internal/service/payments"
)

type PaymentHandler struct {
	service payments.PaymentUseCase
}

type createPaymentRequest struct {
	BookingID int64  `json:"booking_id" binding:"required"`
	Method    string `json:"method" binding:"required"`
}

type confirmPaymentRequest struct {
	ExternalReference string `json:"external_reference" binding:"required"`
}

type paymentResponse struct {
	ID                int64             `json:"payment_id"`
	BookingID         int64             `json:"booking_id"`
	Amount            string            `json:"amount"`
	Currency          string            `json:"currency"`
	Method            string            `json:"method"`
	Status            string            `json:"status"`
	ExternalReference string            `json:"external_reference,omitempty"`
	FailureReason     string            `json:"failure_reason,omitempty"`
	CreatedAt         string            `json:"created_at"`
	ClientPayload     map[string]string `json:"client_payload,omitempty"`
}

func toPaymentResponse(p *domain.Payment, clientPayload map[string]string) paymentResponse {
	return paymentResponse{
		ID:                p.ID,
		BookingID:         p.BookingID,
		Amount:            p.Amount.StringFixed(2),
		Currency:          p.Currency,
		Method:            string(p.Method),
		Status:            string(p.Status),
		ExternalReference: p.ExternalReference,
		FailureReason:     p.FailureReason,
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
		ClientPayload:     clientPayload,
	}
}

func NewPaymentHandler(service payments.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// Register wires the authenticated payment routes.
func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("/booking/:id", h.listByBooking)
}

// RegisterCallbacks wires the provider-facing confirmation endpoint, which
// sits outside the user auth middleware.
func (h *PaymentHandler) RegisterCallbacks(router *gin.RouterGroup) {
	router.POST("/confirm", h.confirm)
}

func (h *PaymentHandler) create(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	method := domain.PaymentMethod(req.Method)
	if !method.Valid() {
		respondError(c, domain.ErrUnsupportedMethod)
		return
	}

	result, err := h.service.Create(c.Request.Context(), auth.CallerID(c), req.BookingID, method)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toPaymentResponse(result.Payment, result.ClientPayload))
}

func (h *PaymentHandler) confirm(c *gin.Context) {
	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Confirm(c.Request.Context(), req.ExternalReference); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *PaymentHandler) listByBooking(c *gin.Context) {
	bookingID, err := parseID(c)
	if err != nil {
		return
	}

	list, err := h.service.ListByBooking(c.Request.Context(), auth.CallerID(c), bookingID, auth.CallerRole(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]paymentResponse, 0, len(list))
	for i := range list {
		out = append(out, toPaymentResponse(&list[i], nil))
	}
	c.JSON(http.StatusOK, out)
}
