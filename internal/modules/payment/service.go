package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"consulthub/internal/domain"
	"consulthub/internal/paystack"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	gateway  gateway
	store    settlementStore
	payments paymentReader
	loggerf  func(format string, args ...interface{})
}

func NewService(gw gateway, store settlementStore, payments paymentReader, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		gateway:  gw,
		store:    store,
		payments: payments,
		loggerf:  loggerf,
	}
}

func newTransactionReference() string {
	return fmt.Sprintf("CHS-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// InitializePayment opens a payment session for a CONFIRMED booking the
// customer owns. The gateway call happens inside the storage
// transaction, so a gateway failure leaves no payment row and no
// reference on the booking.
func (s *Service) InitializePayment(ctx context.Context, customerID int64, req InitializePaymentRequest) (*InitializePaymentResponse, error) {
	reference := newTransactionReference()

	var out InitializePaymentResponse
	_, err := s.store.OpenPaymentSession(ctx, req.BookingID, customerID, reference,
		func(b *domain.Booking, p *domain.Payment) error {
			res, err := s.gateway.Initialize(ctx, paystack.InitializeRequest{
				Amount:    p.Amount,
				Email:     req.Email,
				Reference: reference,
				Metadata: map[string]string{
					"booking_id":  strconv.FormatInt(b.ID, 10),
					"listing_id":  strconv.FormatInt(b.ListingID, 10),
					"expert_id":   strconv.FormatInt(b.ExpertID, 10),
					"customer_id": strconv.FormatInt(b.CustomerID, 10),
				},
			})
			if err != nil {
				s.loggerf("level=error msg=gateway initialize failed booking_id=%d reference=%s err=%v", b.ID, reference, err)
				return ErrGatewayUnavailable
			}
			out = InitializePaymentResponse{
				AuthorizationURL: res.AuthorizationURL,
				AccessCode:       res.AccessCode,
				Reference:        res.Reference,
			}
			return nil
		})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	s.loggerf("level=info msg=payment session opened booking_id=%d reference=%s", req.BookingID, reference)
	return &out, nil
}

// reconcileEvent drives a payment and its booking through settlement
// from one gateway event. Both the webhook and the verify endpoint end
// up here, so retries and races collapse into the same idempotent path:
// a terminal payment does not change, and an already settled booking
// arrives as nil.
func (s *Service) reconcileEvent(ctx context.Context, ev paystack.Event) (*domain.Payment, error) {
	if ev.Kind == paystack.EventOther {
		p, err := s.payments.GetByReference(ctx, ev.Reference)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return p, err
	}

	p, err := s.store.Reconcile(ctx, ev.Reference, func(p *domain.Payment, b *domain.Booking) error {
		now := time.Now().UTC()
		switch ev.Kind {
		case paystack.EventChargeSuccess:
			if p.UpdateStatus(domain.PaymentSuccess, now) {
				p.TransactionID = ev.TransactionID
			}
			if b != nil && p.Status == domain.PaymentSuccess {
				if err := b.TransitionTo(domain.BookingPaid); err != nil {
					return err
				}
				b.PaymentID = &p.ID
			}
		case paystack.EventChargeFailed:
			p.UpdateStatus(domain.PaymentFailed, now)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

// VerifyPayment asks the gateway for the transaction's current state and
// reconciles it. Safe to call any number of times.
func (s *Service) VerifyPayment(ctx context.Context, reference string) (*domain.Payment, error) {
	v, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		s.loggerf("level=error msg=gateway verify failed reference=%s err=%v", reference, err)
		return nil, ErrGatewayUnavailable
	}
	return s.reconcileEvent(ctx, paystack.EventFromVerification(reference, v))
}

// HandleGatewayEvent processes a webhook event whose signature has
// already been checked. Unknown references are logged and dropped so
// the gateway does not retry forever.
func (s *Service) HandleGatewayEvent(ctx context.Context, ev paystack.Event) error {
	if ev.Kind == paystack.EventOther {
		s.loggerf("level=info msg=ignoring gateway event reference=%s", ev.Reference)
		return nil
	}

	_, err := s.reconcileEvent(ctx, ev)
	if errors.Is(err, ErrPaymentNotFound) {
		s.loggerf("level=warn msg=gateway event for unknown reference reference=%s", ev.Reference)
		return nil
	}
	if err != nil {
		return err
	}

	s.loggerf("level=info msg=gateway event reconciled reference=%s kind=%s", ev.Reference, ev.Kind)
	return nil
}

// GetPayment returns the payment to its participants or an admin.
func (s *Service) GetPayment(ctx context.Context, reference string, userID int64, role domain.UserRole) (*domain.Payment, error) {
	p, err := s.payments.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if role != domain.RoleAdmin && p.CustomerID != userID && p.ExpertID != userID {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}

// ListUserPayments pages the user's payments on the side matching their
// role: experts see payments they earn from, everyone else what they
// paid.
func (s *Service) ListUserPayments(ctx context.Context, userID int64, role domain.UserRole, page, limit int) ([]domain.Payment, *ListMeta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	rows, total, err := s.payments.ListByUser(ctx, userID, role == domain.RoleExpert, limit, (page-1)*limit)
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

// ListEscrowDue reports payments whose hold period has lapsed.
func (s *Service) ListEscrowDue(ctx context.Context) ([]domain.Payment, error) {
	return s.payments.ListEscrowDue(ctx, time.Now().UTC())
}
