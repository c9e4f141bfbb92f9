package booking

import (
	"context"

	"consulthub/internal/domain"
	"consulthub/internal/repository"
)

// BookingRepository defines the storage operations the service needs.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, int64, error)
	Mutate(ctx context.Context, id int64, fn func(b *domain.Booking) error) (*domain.Booking, error)
	Delete(ctx context.Context, id int64, guard func(b *domain.Booking) error) error
}

// ListingReader is the boundary to catalog data; bookings only snapshot
// price and expert from it.
type ListingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
}
