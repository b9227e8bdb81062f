package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/oasistravel/booking/internal/auth"
	"github.com/oasistravel/booking/internal/domain"
	"github.com/oasistravel/booking/internal/service/payments"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPaymentUseCase struct {
	mock.Mock
}

func (m *MockPaymentUseCase) Create(ctx context.Context, callerID, bookingID int64, method domain.PaymentMethod) (*payments.CreatePaymentResult, error) {
	args := m.Called(ctx, callerID, bookingID, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.CreatePaymentResult), args.Error(1)
}

func (m *MockPaymentUseCase) Confirm(ctx context.Context, externalRef string) error {
	args := m.Called(ctx, externalRef)
	return args.Error(0)
}

func (m *MockPaymentUseCase) ListByBooking(ctx context.Context, callerID, bookingID int64, callerRole domain.Role) ([]domain.Payment, error) {
	args := m.Called(ctx, callerID, bookingID, callerRole)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func TestPaymentHandler_create(t *testing.T) {
	mockService := &MockPaymentUseCase{}
	handler := NewPaymentHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(gin.H{"booking_id": 10, "method": "stripe"})
	c.Request = httptest.NewRequest("POST", "/api/v1/payments", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	auth.SetCaller(c, 42, domain.RoleCustomer)

	result := &payments.CreatePaymentResult{
		Payment: &domain.Payment{
			ID:                55,
			BookingID:         10,
			Amount:            decimal.RequireFromString("1499.70"),
			Currency:          "AED",
			Method:            domain.PaymentMethodStripe,
			Status:            domain.PaymentStatusPending,
			ExternalReference: "pi_123",
		},
		ClientPayload: map[string]string{"client_secret": "pi_123_secret"},
	}
	mockService.On("Create", c.Request.Context(), int64(42), int64(10), domain.PaymentMethodStripe).Return(result, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response paymentResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "1499.70", response.Amount)
	assert.Equal(t, "pi_123", response.ExternalReference)
	assert.Equal(t, "pi_123_secret", response.ClientPayload["client_secret"])

	mockService.AssertExpectations(t)
}

func TestPaymentHandler_create_invalidMethod(t *testing.T) {
	mockService := &MockPaymentUseCase{}
	handler := NewPaymentHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(gin.H{"booking_id": 10, "method": "bitcoin"})
	c.Request = httptest.NewRequest("POST", "/api/v1/payments", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	auth.SetCaller(c, 42, domain.RoleCustomer)

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestPaymentHandler_create_alreadyPaid(t *testing.T) {
	mockService := &MockPaymentUseCase{}
	handler := NewPaymentHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(gin.H{"booking_id": 10, "method": "paytabs"})
	c.Request = httptest.NewRequest("POST", "/api/v1/payments", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	auth.SetCaller(c, 42, domain.RoleCustomer)

	mockService.On("Create", c.Request.Context(), int64(42), int64(10), domain.PaymentMethodPayTabs).
		Return(nil, domain.ErrAlreadyPaid)

	handler.create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestPaymentHandler_create_providerFailure(t *testing.T) {
	mockService := &MockPaymentUseCase{}
	handler := NewPaymentHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(gin.H{"booking_id": 10, "method": "stripe"})
	c.Request = httptest.NewRequest("POST", "/api/v1/payments", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	auth.SetCaller(c, 42, domain.RoleCustomer)

	mockService.On("Create", c.Request.Context(), int64(42), int64(10), domain.PaymentMethodStripe).
		Return(nil, domain.ErrProviderFailure)

	handler.create(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	mockService.AssertExpectations(t)
}

func TestPaymentHandler_confirm(t *testing.T) {
	mockService := &MockPaymentUseCase{}
	handler := NewPaymentHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(gin.H{"external_reference": "pi_123"})
	c.Request = httptest.NewRequest("POST", "/api/v1/payments/confirm", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Confirm", c.Request.Context(), "pi_123").Return(nil)

	handler.confirm(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestPaymentHandler_listByBooking(t *testing.T) {
	mockService := &MockPaymentUseCase{}
	handler := NewPaymentHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "10"}}
	c.Request = httptest.NewRequest("GET", "/api/v1/payments/booking/10", nil)
	auth.SetCaller(c, 42, domain.RoleCustomer)

	list := []domain.Payment{
		{ID: 54, BookingID: 10, Amount: decimal.RequireFromString("1499.70"), Currency: "AED", Method: domain.PaymentMethodStripe, Status: domain.PaymentStatusFailed, FailureReason: "card_declined"},
		{ID: 55, BookingID: 10, Amount: decimal.RequireFromString("1499.70"), Currency: "AED", Method: domain.PaymentMethodPayPal, Status: domain.PaymentStatusPaid},
	}
	mockService.On("ListByBooking", c.Request.Context(), int64(42), int64(10), domain.RoleCustomer).Return(list, nil)

	handler.listByBooking(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []paymentResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 2)
	assert.Equal(t, "card_declined", response[0].FailureReason)
	assert.Equal(t, string(domain.PaymentStatusPaid), response[1].Status)

	mockService.AssertExpectations(t)
}
