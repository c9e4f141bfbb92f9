package payment

import (
	"context"
	"time"

	"consulthub/internal/domain"
	"consulthub/internal/paystack"
)

// settlementStore is the transactional boundary of the engine. Both
// methods run the injected closure inside the storage transaction.
type settlementStore interface {
	OpenPaymentSession(ctx context.Context, bookingID, customerID int64, reference string, open func(b *domain.Booking, p *domain.Payment) error) (*domain.Payment, error)
	Reconcile(ctx context.Context, reference string, apply func(p *domain.Payment, b *domain.Booking) error) (*domain.Payment, error)
}

type paymentReader interface {
	GetByReference(ctx context.Context, reference string) (*domain.Payment, error)
	ListByUser(ctx context.Context, userID int64, asExpert bool, limit, offset int) ([]domain.Payment, int64, error)
	ListEscrowDue(ctx context.Context, now time.Time) ([]domain.Payment, error)
}

// gateway abstracts the Paystack client for tests.
type gateway interface {
	Initialize(ctx context.Context, req paystack.InitializeRequest) (*paystack.InitializeResult, error)
	Verify(ctx context.Context, reference string) (*paystack.VerifyResult, error)
	VerifyWebhookSignature(signature string, body []byte) bool
}
