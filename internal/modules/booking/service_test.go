package booking

import (
	"context"
	"testing"
	"time"

	"consulthub/internal/domain"
	"consulthub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if b != nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Booking), args.Get(1).(int64), args.Error(2)
}

// Mutate runs the closure against the stored booking, like the real
// repository does inside its transaction.
func (m *MockBookingRepository) Mutate(ctx context.Context, id int64, fn func(b *domain.Booking) error) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	b := args.Get(0).(*domain.Booking)
	if err := fn(b); err != nil {
		return nil, err
	}
	return b, args.Error(1)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id int64, guard func(b *domain.Booking) error) error {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return args.Error(1)
	}
	if err := guard(args.Get(0).(*domain.Booking)); err != nil {
		return err
	}
	return args.Error(1)
}

type MockListingReader struct {
	mock.Mock
}

func (m *MockListingReader) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func activeListing() *domain.Listing {
	return &domain.Listing{
		ID:       10,
		ExpertID: 42,
		Title:    "Tax consultation",
		Price:    20000,
		Active:   true,
	}
}

func TestService_CreateBooking_Success(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockListings := new(MockListingReader)

	mockListings.On("GetByID", mock.Anything, int64(10)).Return(activeListing(), nil)
	mockBookings.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockBookings, mockListings)

	req := CreateBookingRequest{
		ListingID:   10,
		Location:    "Online",
		Note:        "First consultation",
		ScheduledAt: time.Now().Add(48 * time.Hour),
	}

	b, err := service.CreateBooking(context.Background(), 7, req)

	assert.NoError(t, err)
	assert.NotNil(t, b)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, int64(7), b.CustomerID)
	assert.Equal(t, int64(42), b.ExpertID)
	assert.Equal(t, int64(20000), b.Price)
	assert.Zero(t, b.PlatformFee)
	mockBookings.AssertExpectations(t)
}

func TestService_CreateBooking_PastSchedule(t *testing.T) {
	service := NewService(new(MockBookingRepository), new(MockListingReader))

	req := CreateBookingRequest{
		ListingID:   10,
		Location:    "Online",
		ScheduledAt: time.Now().Add(-time.Hour),
	}

	_, err := service.CreateBooking(context.Background(), 7, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_CreateBooking_ListingMissing(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockListings := new(MockListingReader)

	mockListings.On("GetByID", mock.Anything, int64(10)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(mockBookings, mockListings)

	req := CreateBookingRequest{
		ListingID:   10,
		Location:    "Online",
		ScheduledAt: time.Now().Add(48 * time.Hour),
	}

	_, err := service.CreateBooking(context.Background(), 7, req)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_CreateBooking_InactiveListing(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockListings := new(MockListingReader)

	l := activeListing()
	l.Active = false
	mockListings.On("GetByID", mock.Anything, int64(10)).Return(l, nil)

	service := NewService(mockBookings, mockListings)

	req := CreateBookingRequest{
		ListingID:   10,
		Location:    "Online",
		ScheduledAt: time.Now().Add(48 * time.Hour),
	}

	_, err := service.CreateBooking(context.Background(), 7, req)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_UpdateStatus_ExpertConfirms(t *testing.T) {
	mockBookings := new(MockBookingRepository)

	stored := &domain.Booking{
		ID:         1,
		CustomerID: 7,
		ExpertID:   42,
		Status:     domain.BookingPending,
		Price:      20000,
	}
	mockBookings.On("Mutate", mock.Anything, int64(1)).Return(stored, nil)

	service := NewService(mockBookings, new(MockListingReader))

	b, err := service.UpdateStatus(context.Background(), 1, 42, domain.RoleExpert, domain.BookingConfirmed)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, b.Status)
	assert.Equal(t, int64(2000), b.PlatformFee)
}

func TestService_UpdateStatus_NobodySetsPaid(t *testing.T) {
	service := NewService(new(MockBookingRepository), new(MockListingReader))

	for _, role := range []domain.UserRole{domain.RoleCustomer, domain.RoleExpert, domain.RoleAdmin} {
		_, err := service.UpdateStatus(context.Background(), 1, 42, role, domain.BookingPaid)
		assert.ErrorIs(t, err, ErrForbidden, "role %s", role)
	}
}

func TestService_UpdateStatus_RoleGate(t *testing.T) {
	service := NewService(new(MockBookingRepository), new(MockListingReader))

	// Customers do not confirm, experts do not cancel.
	_, err := service.UpdateStatus(context.Background(), 1, 7, domain.RoleCustomer, domain.BookingConfirmed)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = service.UpdateStatus(context.Background(), 1, 42, domain.RoleExpert, domain.BookingCancelled)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_UpdateStatus_StrangerGetsNotFound(t *testing.T) {
	mockBookings := new(MockBookingRepository)

	stored := &domain.Booking{
		ID:         1,
		CustomerID: 7,
		ExpertID:   42,
		Status:     domain.BookingPending,
	}
	mockBookings.On("Mutate", mock.Anything, int64(1)).Return(stored, nil)

	service := NewService(mockBookings, new(MockListingReader))

	_, err := service.UpdateStatus(context.Background(), 1, 555, domain.RoleExpert, domain.BookingConfirmed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_UpdateStatus_IllegalTransition(t *testing.T) {
	mockBookings := new(MockBookingRepository)

	stored := &domain.Booking{
		ID:         1,
		CustomerID: 7,
		ExpertID:   42,
		Status:     domain.BookingPending,
	}
	mockBookings.On("Mutate", mock.Anything, int64(1)).Return(stored, nil)

	service := NewService(mockBookings, new(MockListingReader))

	_, err := service.UpdateStatus(context.Background(), 1, 42, domain.RoleExpert, domain.BookingDone)

	var transition *domain.InvalidTransitionError
	assert.ErrorAs(t, err, &transition)
	assert.Equal(t, domain.BookingPending, transition.From)
	assert.Equal(t, domain.BookingDone, transition.To)
}

func TestService_GetBooking_ParticipantsOnly(t *testing.T) {
	mockBookings := new(MockBookingRepository)

	stored := &domain.Booking{ID: 1, CustomerID: 7, ExpertID: 42}
	mockBookings.On("GetByID", mock.Anything, int64(1)).Return(stored, nil)

	service := NewService(mockBookings, new(MockListingReader))

	b, err := service.GetBooking(context.Background(), 1, 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), b.ID)

	b, err = service.GetBooking(context.Background(), 1, 42)
	assert.NoError(t, err)
	assert.NotNil(t, b)

	_, err = service.GetBooking(context.Background(), 1, 555)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_ListBookings_BadStatus(t *testing.T) {
	service := NewService(new(MockBookingRepository), new(MockListingReader))

	_, _, err := service.ListBookings(context.Background(), 7, "SHIPPED", 1, 10, false)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_ListBookings_Paging(t *testing.T) {
	mockBookings := new(MockBookingRepository)

	mockBookings.On("List", mock.Anything, repository.BookingFilter{
		UserID: 7,
		Status: domain.BookingPending,
		Limit:  10,
		Offset: 10,
	}).Return([]domain.Booking{{ID: 11}}, int64(23), nil)

	service := NewService(mockBookings, new(MockListingReader))

	rows, meta, err := service.ListBookings(context.Background(), 7, "PENDING", 2, 10, false)

	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int64(23), meta.TotalRecords)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 2, meta.CurrentPage)
}

func TestService_DeleteBooking_Rules(t *testing.T) {
	mockBookings := new(MockBookingRepository)

	pending := &domain.Booking{ID: 1, CustomerID: 7, Status: domain.BookingPending}
	mockBookings.On("Delete", mock.Anything, int64(1)).Return(pending, nil)

	ref := "CHS-1"
	touched := &domain.Booking{ID: 2, CustomerID: 7, Status: domain.BookingPending, PaymentReference: &ref}
	mockBookings.On("Delete", mock.Anything, int64(2)).Return(touched, nil)

	service := NewService(mockBookings, new(MockListingReader))

	assert.NoError(t, service.DeleteBooking(context.Background(), 1, 7))
	assert.ErrorIs(t, service.DeleteBooking(context.Background(), 1, 555), ErrNotFound)
	assert.ErrorIs(t, service.DeleteBooking(context.Background(), 2, 7), domain.ErrInvalidOperation)
}
