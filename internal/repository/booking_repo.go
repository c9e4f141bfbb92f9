package repository

import (
	"context"

	"consulthub/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

type BookingFilter struct {
	UserID  int64
	Status  domain.BookingStatus
	Limit   int
	Offset  int
	SortAsc bool
}

// List returns bookings where the user participates as customer or
// expert, newest scheduled first unless SortAsc is set.
func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]domain.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("customer_id = ? OR expert_id = ?", f.UserID, f.UserID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "scheduled_at DESC"
	if f.SortAsc {
		order = "scheduled_at ASC"
	}

	var out []domain.Booking
	if err := q.Order(order).Limit(f.Limit).Offset(f.Offset).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Mutate loads the booking under a row lock, applies fn and saves the
// result in one transaction. Status changes go through here so two
// concurrent requests cannot both act on the same stale state.
func (r *BookingRepository) Mutate(ctx context.Context, id int64, fn func(b *domain.Booking) error) (*domain.Booking, error) {
	var out *domain.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.Booking
		if err := lockForUpdate(tx).First(&b, id).Error; err != nil {
			return err
		}
		if err := fn(&b); err != nil {
			return err
		}
		if err := tx.Save(&b).Error; err != nil {
			return err
		}
		out = &b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the booking only if guard accepts its current state.
func (r *BookingRepository) Delete(ctx context.Context, id int64, guard func(b *domain.Booking) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.Booking
		if err := lockForUpdate(tx).First(&b, id).Error; err != nil {
			return err
		}
		if err := guard(&b); err != nil {
			return err
		}
		return tx.Delete(&domain.Booking{}, id).Error
	})
}

// lockForUpdate adds FOR UPDATE on dialects that support it. sqlite
// (local dev, tests) serializes writes on its own and rejects the
// clause.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
