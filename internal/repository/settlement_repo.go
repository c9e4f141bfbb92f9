package repository

import (
	"context"
	"errors"

	"consulthub/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SettlementRepository owns the two atomic units of the settlement
// engine. Each method runs one transaction; any error from the injected
// closure aborts the whole unit, so a gateway failure during
// initialization leaves neither a Payment row nor a payment reference
// behind, and a half-applied reconciliation can never commit.
type SettlementRepository struct {
	db *gorm.DB
}

func NewSettlementRepository(db *gorm.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

// OpenPaymentSession locks the booking, enforces the one-active-payment
// rule, creates a pending Payment with the booking's terms, writes the
// reference onto the booking, then calls open (the gateway initialize
// call) while the transaction is still live.
//
// Returns gorm.ErrRecordNotFound when the booking is missing, not owned
// by the customer, or not CONFIRMED, and domain.ErrDuplicatePayment
// when a non-failed payment already exists for the booking.
func (r *SettlementRepository) OpenPaymentSession(
	ctx context.Context,
	bookingID, customerID int64,
	reference string,
	open func(b *domain.Booking, p *domain.Payment) error,
) (*domain.Payment, error) {
	var created *domain.Payment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.Booking
		err := lockForUpdate(tx).
			Where("id = ? AND customer_id = ? AND status = ?", bookingID, customerID, domain.BookingConfirmed).
			First(&b).Error
		if err != nil {
			return err
		}

		// At most one non-failed payment per booking; storage-level
		// partial uniqueness is not portable, so enforced here.
		var active int64
		err = tx.Model(&domain.Payment{}).
			Where("booking_id = ? AND status <> ?", bookingID, domain.PaymentFailed).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return domain.ErrDuplicatePayment
		}

		p := domain.NewPayment(&b, reference)
		if err := tx.Create(p).Error; err != nil {
			return translateUniqueViolation(err)
		}
		if err := tx.Model(&domain.Booking{}).Where("id = ?", b.ID).
			Update("payment_reference", reference).Error; err != nil {
			return err
		}
		b.PaymentReference = &reference

		if err := open(&b, p); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Reconcile locks the payment for the reference, looks up the booking
// still awaiting settlement (payment_reference match, status
// CONFIRMED), applies the caller's reconciliation step and persists
// both rows. When the booking was already settled by the other entry
// point, apply receives a nil booking and its second write becomes a
// no-op.
func (r *SettlementRepository) Reconcile(
	ctx context.Context,
	reference string,
	apply func(p *domain.Payment, b *domain.Booking) error,
) (*domain.Payment, error) {
	var out *domain.Payment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Payment
		if err := lockForUpdate(tx).
			Where("transaction_reference = ?", reference).
			First(&p).Error; err != nil {
			return err
		}

		var b *domain.Booking
		var pending domain.Booking
		err := lockForUpdate(tx).
			Where("payment_reference = ? AND status = ?", reference, domain.BookingConfirmed).
			First(&pending).Error
		switch {
		case err == nil:
			b = &pending
		case errors.Is(err, gorm.ErrRecordNotFound):
			// already settled, or failed-and-superseded reference
		default:
			return err
		}

		if err := apply(&p, b); err != nil {
			return err
		}

		if err := tx.Save(&p).Error; err != nil {
			return err
		}
		if b != nil {
			if err := tx.Save(b).Error; err != nil {
				return err
			}
		}
		out = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrDuplicateReference
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateReference
	}
	return err
}
