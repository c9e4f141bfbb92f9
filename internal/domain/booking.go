package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingPaid      BookingStatus = "PAID"
	BookingDone      BookingStatus = "DONE"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// PlatformFeeRate is applied once, when a booking enters CONFIRMED.
// The fee is never recomputed after that point.
const PlatformFeeRate = 0.10

var (
	ErrInvalidOperation   = errors.New("operation not allowed in current booking state")
	ErrDuplicatePayment   = errors.New("booking already has an active payment")
	ErrDuplicateReference = errors.New("transaction reference already exists")
)

// InvalidTransitionError names both states so callers can report the
// exact rejected transition.
type InvalidTransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid booking status transition from '%s' to '%s'", e.From, e.To)
}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingPaid},
	BookingPaid:      {BookingDone},
	BookingDone:      {BookingCompleted},
	BookingCompleted: {},
	BookingCancelled: {},
}

// CanTransition reports whether the status graph allows current -> next.
func CanTransition(current, next BookingStatus) bool {
	for _, s := range bookingTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

type Booking struct {
	ID         int64         `gorm:"primaryKey" json:"id"`
	CustomerID int64         `gorm:"index;not null" json:"customer_id"`
	ExpertID   int64         `gorm:"index;not null" json:"expert_id"`
	ListingID  int64         `gorm:"index;not null" json:"listing_id"`
	Status     BookingStatus `gorm:"type:varchar(16);default:'PENDING';index" json:"status"`
	Location   string        `gorm:"type:text" json:"location"`
	Note       string        `gorm:"type:text" json:"note,omitempty"`

	// Price is a snapshot copied from the listing at booking time,
	// in whole currency units. Immutable after creation.
	Price       int64 `gorm:"not null" json:"price"`
	PlatformFee int64 `json:"platform_fee"`

	ScheduledAt time.Time `gorm:"not null" json:"scheduled_at"`

	// PaymentReference is written when a payment session is opened,
	// PaymentID when the settling payment succeeds.
	PaymentReference *string `gorm:"type:varchar(64);index" json:"payment_reference,omitempty"`
	PaymentID        *int64  `json:"payment_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }

// TransitionTo applies one step of the status graph. Entering CONFIRMED
// fixes the platform fee; no other mutation path may touch Status.
func (b *Booking) TransitionTo(next BookingStatus) error {
	if !CanTransition(b.Status, next) {
		return &InvalidTransitionError{From: b.Status, To: next}
	}
	if next == BookingConfirmed {
		b.PlatformFee = CalculatePlatformFee(b.Price)
	}
	b.Status = next
	return nil
}

// CanDelete: deletion is a pseudo-transition allowed only while the
// booking is PENDING and no payment session was ever opened.
func (b *Booking) CanDelete() bool {
	return b.Status == BookingPending && b.PaymentReference == nil
}

// CalculatePlatformFee rounds to the nearest currency unit.
func CalculatePlatformFee(price int64) int64 {
	return int64(math.Round(float64(price) * PlatformFeeRate))
}
