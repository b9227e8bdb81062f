package packages

import (
	"context"
	"errors"
	"testing"

	"github.com/oasistravel/booking/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) List(ctx context.Context) ([]domain.Package, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Package), args.Error(1)
}

func (m *MockPackageRepository) GetByID(ctx context.Context, id int64) (*domain.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Package), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetPackages(ctx context.Context) ([]domain.Package, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Package), args.Error(1)
}

func (m *MockCache) SetPackages(ctx context.Context, packages []domain.Package) error {
	args := m.Called(ctx, packages)
	return args.Error(0)
}

func catalog() []domain.Package {
	return []domain.Package{
		{ID: 7, TitleEN: "Desert Safari", Price: decimal.RequireFromString("499.90"), IsActive: true},
		{ID: 8, TitleEN: "Dhow Cruise", Price: decimal.RequireFromString("250.00"), IsActive: true},
	}
}

func TestPackageService_List_CacheHit(t *testing.T) {
	mockRepo := &MockPackageRepository{}
	mockCache := &MockCache{}
	service := NewPackageService(mockRepo, mockCache)

	ctx := context.Background()
	mockCache.On("GetPackages", ctx).Return(catalog(), nil).Once()

	list, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Len(t, list, 2)

	mockCache.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "List")
}

func TestPackageService_List_CacheMiss(t *testing.T) {
	mockRepo := &MockPackageRepository{}
	mockCache := &MockCache{}
	service := NewPackageService(mockRepo, mockCache)

	ctx := context.Background()
	mockCache.On("GetPackages", ctx).Return([]domain.Package(nil), errors.New("cache miss")).Once()
	mockRepo.On("List", ctx).Return(catalog(), nil).Once()
	mockCache.On("SetPackages", ctx, catalog()).Return(nil).Once()

	list, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Len(t, list, 2)

	mockCache.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestPackageService_List_NoCache(t *testing.T) {
	mockRepo := &MockPackageRepository{}
	service := NewPackageService(mockRepo, nil)

	ctx := context.Background()
	mockRepo.On("List", ctx).Return(catalog(), nil).Once()

	list, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Len(t, list, 2)
	mockRepo.AssertExpectations(t)
}

func TestPackageService_GetByID_NotFound(t *testing.T) {
	mockRepo := &MockPackageRepository{}
	service := NewPackageService(mockRepo, &MockCache{})

	ctx := context.Background()
	mockRepo.On("GetByID", ctx, int64(404)).Return(nil, domain.ErrPackageNotFound).Once()

	pkg, err := service.GetByID(ctx, 404)

	assert.Nil(t, pkg)
	assert.ErrorIs(t, err, domain.ErrPackageNotFound)
}
