package domain

import "time"

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentSuccess  PaymentStatus = "success"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type ReleaseStatus string

const (
	ReleasePending  ReleaseStatus = "pending"
	ReleaseReleased ReleaseStatus = "released"
	ReleaseDisputed ReleaseStatus = "disputed"
)

// EscrowHoldPeriod is how long funds are held after a successful
// payment before they become eligible for payout to the expert.
const EscrowHoldPeriod = 7 * 24 * time.Hour

type Payment struct {
	ID int64 `gorm:"primaryKey" json:"id"`

	// TransactionReference is generated by the settlement engine before
	// the gateway is contacted; the unique index is the real uniqueness
	// guarantee.
	TransactionReference string `gorm:"type:varchar(64);uniqueIndex;not null" json:"transaction_reference"`

	BookingID  int64 `gorm:"index;not null" json:"booking_id"`
	CustomerID int64 `gorm:"index;not null" json:"customer_id"`
	ExpertID   int64 `gorm:"index;not null" json:"expert_id"`
	ListingID  int64 `gorm:"index;not null" json:"listing_id"`

	// Amount and PlatformFee are snapshots copied from the booking at
	// initialization time.
	Amount      int64 `gorm:"not null" json:"amount"`
	PlatformFee int64 `json:"platform_fee"`

	Status PaymentStatus `gorm:"type:varchar(16);default:'pending';index" json:"status"`

	// TransactionID is assigned by the gateway, set only on verified
	// success.
	TransactionID string `gorm:"type:varchar(64)" json:"transaction_id,omitempty"`

	EscrowReleaseDate *time.Time    `json:"escrow_release_date,omitempty"`
	ReleaseStatus     ReleaseStatus `gorm:"type:varchar(16);default:'pending'" json:"release_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

// NewPayment snapshots booking terms into a fresh pending payment.
func NewPayment(b *Booking, reference string) *Payment {
	return &Payment{
		TransactionReference: reference,
		BookingID:            b.ID,
		CustomerID:           b.CustomerID,
		ExpertID:             b.ExpertID,
		ListingID:            b.ListingID,
		Amount:               b.Price,
		PlatformFee:          b.PlatformFee,
		Status:               PaymentPending,
		ReleaseStatus:        ReleasePending,
	}
}

// UpdateStatus is the only mutator of Status. It reports whether the
// record changed: success and failed are terminal, and a call on a
// terminal record is a no-op because webhook delivery is at-least-once.
// Entering success stamps the escrow release date; failure touches no
// escrow fields.
func (p *Payment) UpdateStatus(next PaymentStatus, now time.Time) bool {
	if p.Status != PaymentPending || next == p.Status {
		return false
	}
	p.Status = next
	if next == PaymentSuccess {
		release := now.Add(EscrowHoldPeriod)
		p.EscrowReleaseDate = &release
	}
	return true
}

// EscrowDue reports whether funds are eligible for release at now.
func (p *Payment) EscrowDue(now time.Time) bool {
	return p.Status == PaymentSuccess &&
		p.ReleaseStatus == ReleasePending &&
		p.EscrowReleaseDate != nil &&
		!p.EscrowReleaseDate.After(now)
}
