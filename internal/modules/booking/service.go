package booking

import (
	"context"
	"errors"
	"time"

	"consulthub/internal/domain"
	"consulthub/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	bookings BookingRepository
	listings ListingReader
}

func NewService(bookings BookingRepository, listings ListingReader) *Service {
	return &Service{
		bookings: bookings,
		listings: listings,
	}
}

// CreateBooking validates the request, snapshots price and expert from
// the listing and persists a PENDING booking for the customer.
func (s *Service) CreateBooking(ctx context.Context, customerID int64, req CreateBookingRequest) (*domain.Booking, error) {
	if !req.ScheduledAt.After(time.Now()) {
		return nil, ErrValidation
	}

	l, err := s.listings.GetByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !l.Active {
		return nil, ErrNotFound
	}
	if l.Price < domain.ListingMinPrice || l.Price > domain.ListingMaxPrice {
		return nil, ErrValidation
	}

	b := &domain.Booking{
		CustomerID:  customerID,
		ExpertID:    l.ExpertID,
		ListingID:   l.ID,
		Status:      domain.BookingPending,
		Location:    req.Location,
		Note:        req.Note,
		Price:       l.Price,
		ScheduledAt: req.ScheduledAt,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Which statuses each role may request. PAID is absent on purpose: only
// the settlement engine moves a booking to PAID.
var roleTransitions = map[domain.UserRole][]domain.BookingStatus{
	domain.RoleCustomer: {domain.BookingCancelled, domain.BookingCompleted},
	domain.RoleExpert:   {domain.BookingConfirmed, domain.BookingDone},
}

func roleMayRequest(role domain.UserRole, next domain.BookingStatus) bool {
	for _, s := range roleTransitions[role] {
		if s == next {
			return true
		}
	}
	return false
}

// UpdateStatus applies a role-gated status transition requested by a
// participant. The state machine itself decides per-state legality; the
// role gate decides who may ask for what.
func (s *Service) UpdateStatus(ctx context.Context, bookingID, actorID int64, actorRole domain.UserRole, next domain.BookingStatus) (*domain.Booking, error) {
	if next == domain.BookingPaid {
		return nil, ErrForbidden
	}
	if !roleMayRequest(actorRole, next) {
		return nil, ErrForbidden
	}

	b, err := s.bookings.Mutate(ctx, bookingID, func(b *domain.Booking) error {
		switch actorRole {
		case domain.RoleCustomer:
			if b.CustomerID != actorID {
				return ErrNotFound
			}
		case domain.RoleExpert:
			if b.ExpertID != actorID {
				return ErrNotFound
			}
		default:
			return ErrForbidden
		}
		return b.TransitionTo(next)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetBooking returns the booking only to its participants.
func (s *Service) GetBooking(ctx context.Context, bookingID, userID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.CustomerID != userID && b.ExpertID != userID {
		return nil, ErrNotFound
	}
	return b, nil
}

// ListBookings pages through the user's bookings as customer or expert.
func (s *Service) ListBookings(ctx context.Context, userID int64, status string, page, limit int, sortAsc bool) ([]domain.Booking, *ListMeta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var st domain.BookingStatus
	if status != "" {
		st = domain.BookingStatus(status)
		if _, ok := map[domain.BookingStatus]bool{
			domain.BookingPending: true, domain.BookingConfirmed: true,
			domain.BookingPaid: true, domain.BookingDone: true,
			domain.BookingCompleted: true, domain.BookingCancelled: true,
		}[st]; !ok {
			return nil, nil, ErrValidation
		}
	}

	rows, total, err := s.bookings.List(ctx, repository.BookingFilter{
		UserID:  userID,
		Status:  st,
		Limit:   limit,
		Offset:  (page - 1) * limit,
		SortAsc: sortAsc,
	})
	if err != nil {
		return nil, nil, err
	}

	meta := &ListMeta{
		TotalRecords: total,
		TotalPages:   int((total + int64(limit) - 1) / int64(limit)),
		CurrentPage:  page,
		PageSize:     limit,
	}
	return rows, meta, nil
}

// DeleteBooking removes a PENDING, never-paid booking owned by the
// customer. Any other state fails with domain.ErrInvalidOperation.
func (s *Service) DeleteBooking(ctx context.Context, bookingID, customerID int64) error {
	err := s.bookings.Delete(ctx, bookingID, func(b *domain.Booking) error {
		if b.CustomerID != customerID {
			return ErrNotFound
		}
		if !b.CanDelete() {
			return domain.ErrInvalidOperation
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
