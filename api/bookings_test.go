package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oasistravel/booking/internal/auth"
	"github.com/oasistravel/booking/internal/domain"
	"github.com/oasistravel/booking/internal/service/booking"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) Create(ctx context.Context, userID int64, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetByID(ctx context.Context, bookingID, callerID int64, callerRole domain.Role) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, callerID, callerRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Cancel(ctx context.Context, bookingID, callerID int64, callerRole domain.Role) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, callerID, callerRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) SetStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) SendTravelReminders(ctx context.Context, from, to time.Time) (int, error) {
	args := m.Called(ctx, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingUseCase) CompletePastBookings(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func sampleBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:             1,
		UserID:         42,
		PackageID:      7,
		TravelDate:     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		TravelersCount: 3,
		TotalPrice:     decimal.RequireFromString("1499.70"),
		Status:         status,
		PaymentStatus:  domain.PaymentStatusPending,
		Reference:      "DXB4K7Q2N",
	}
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(gin.H{
		"package_id":      7,
		"travel_date":     "2026-10-01T00:00:00Z",
		"travelers_count": 3,
	})
	c.Request = httptest.NewRequest("POST", "/api/v1/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	auth.SetCaller(c, 42, domain.RoleCustomer)

	mockService.On("Create", c.Request.Context(), int64(42), mock.AnythingOfType("booking.CreateBookingInput")).
		Return(sampleBooking(domain.BookingStatusPending), nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "DXB4K7Q2N", response.Reference)
	assert.Equal(t, "1499.70", response.TotalPrice)
	assert.Equal(t, string(domain.BookingStatusPending), response.Status)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_capacityConflict(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(gin.H{
		"package_id":      7,
		"travel_date":     "2026-10-01T00:00:00Z",
		"travelers_count": 5,
	})
	c.Request = httptest.NewRequest("POST", "/api/v1/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	auth.SetCaller(c, 42, domain.RoleCustomer)

	mockService.On("Create", c.Request.Context(), int64(42), mock.Anything).
		Return(nil, domain.ErrInsufficientAvailability)

	handler.create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("PUT", "/api/v1/bookings/1/cancel", nil)
	auth.SetCaller(c, 42, domain.RoleCustomer)

	mockService.On("Cancel", c.Request.Context(), int64(1), int64(42), domain.RoleCustomer).
		Return(sampleBooking(domain.BookingStatusCancelled), nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, string(domain.BookingStatusCancelled), response.Status)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel_alreadyCancelled(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("PUT", "/api/v1/bookings/1/cancel", nil)
	auth.SetCaller(c, 42, domain.RoleCustomer)

	mockService.On("Cancel", c.Request.Context(), int64(1), int64(42), domain.RoleCustomer).
		Return(nil, domain.ErrInvalidBookingState)

	handler.cancel(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_get_forbidden(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("GET", "/api/v1/bookings/1", nil)
	auth.SetCaller(c, 99, domain.RoleCustomer)

	mockService.On("GetByID", c.Request.Context(), int64(1), int64(99), domain.RoleCustomer).
		Return(nil, domain.ErrForbidden)

	handler.get(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_setStatus(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(gin.H{"status": "confirmed"})
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("PUT", "/api/v1/bookings/1/status", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	auth.SetCaller(c, 2, domain.RoleAdmin)

	mockService.On("SetStatus", c.Request.Context(), int64(1), domain.BookingStatusConfirmed).
		Return(sampleBooking(domain.BookingStatusConfirmed), nil)

	handler.setStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
