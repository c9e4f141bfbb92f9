package repository

import (
	"context"
	"time"

	"consulthub/internal/domain"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) GetByReference(ctx context.Context, reference string) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).Where("transaction_reference = ?", reference).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUser returns payments where the user is the customer or, when
// asExpert is set, the expert; newest first.
func (r *PaymentRepository) ListByUser(ctx context.Context, userID int64, asExpert bool, limit, offset int) ([]domain.Payment, int64, error) {
	col := "customer_id"
	if asExpert {
		col = "expert_id"
	}
	q := r.db.WithContext(ctx).Model(&domain.Payment{}).Where(col+" = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Payment
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListEscrowDue returns successful payments whose escrow hold has
// lapsed and that are still awaiting release. Read by the external
// payout process and the escrow_report command.
func (r *PaymentRepository) ListEscrowDue(ctx context.Context, now time.Time) ([]domain.Payment, error) {
	var out []domain.Payment
	err := r.db.WithContext(ctx).
		Where("status = ? AND release_status = ? AND escrow_release_date <= ?",
			domain.PaymentSuccess, domain.ReleasePending, now).
		Order("escrow_release_date ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
