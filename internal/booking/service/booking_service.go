package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/durgapur-services/marketplace-backend/internal/booking/domain"
	catalogdomain "github.com/durgapur-services/marketplace-backend/internal/catalog/domain"
	"github.com/durgapur-services/marketplace-backend/internal/platform/logger"
	"github.com/durgapur-services/marketplace-backend/internal/realtime"
)

type ProviderReader interface {
	GetByID(ctx context.Context, id string) (*catalogdomain.Provider, error)
}

type OrderStore interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, bool, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

type IdempotencyStore interface {
	Begin(ctx context.Context, userID, key string) (string, error)
	Complete(ctx context.Context, userID, key, orderID string) error
	Release(ctx context.Context, userID, key string) error
}

// BookRequest is one confirmed checkout.
type BookRequest struct {
	ProviderID     string
	UserID         string
	UserEmail      string
	IdempotencyKey string
}

// BookResult carries the order and the final checkout state.
type BookResult struct {
	Order    *domain.Order        `json:"order"`
	Replayed bool                 `json:"replayed"`
	State    domain.CheckoutState `json:"state"`
}

// BookingService handles checkout and order history
type BookingService struct {
	providers     ProviderReader
	orders        OrderStore
	idempotency   IdempotencyStore
	bus           realtime.Publisher
	paymentDelay  time.Duration
	defaultAmount float64
}

// NewBookingService creates a new BookingService. idempotency and bus may be nil.
func NewBookingService(providers ProviderReader, orders OrderStore, idempotency IdempotencyStore, bus realtime.Publisher, paymentDelay time.Duration, defaultAmount float64) *BookingService {
	return &BookingService{
		providers:     providers,
		orders:        orders,
		idempotency:   idempotency,
		bus:           bus,
		paymentDelay:  paymentDelay,
		defaultAmount: defaultAmount,
	}
}

// Book runs the checkout for req: guard, simulated payment, then one Paid
// order. A repeated idempotency key returns the first order.
func (s *BookingService) Book(ctx context.Context, req BookRequest) (*BookResult, error) {
	log := logger.FromContext(ctx)

	p, err := s.providers.GetByID(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	if p.IsOwner(req.UserID) {
		return nil, catalogdomain.ErrOwnerAction
	}
	if !p.IsOnline() {
		return nil, catalogdomain.ErrProviderOffline
	}

	keyed := req.IdempotencyKey != "" && s.idempotency != nil
	if keyed {
		existingID, err := s.idempotency.Begin(ctx, req.UserID, req.IdempotencyKey)
		if errors.Is(err, domain.ErrBookingInProgress) {
			return s.replayStored(ctx, req)
		}
		if err != nil {
			return nil, err
		}
		if existingID != "" {
			o, err := s.orders.GetByID(ctx, existingID)
			if err != nil {
				return nil, err
			}
			return &BookResult{Order: o, Replayed: true, State: domain.CheckoutSuccess}, nil
		}
	}

	checkout := domain.NewCheckout()
	if err := checkout.Confirm(); err != nil {
		return nil, err
	}

	fail := func(cause error) (*BookResult, error) {
		_ = checkout.Fail()
		if keyed {
			if err := s.idempotency.Release(context.WithoutCancel(ctx), req.UserID, req.IdempotencyKey); err != nil {
				log.Warn("idempotency key not released", "error", err)
			}
		}
		return nil, cause
	}

	if err := s.simulatePayment(ctx); err != nil {
		return fail(fmt.Errorf("payment interrupted: %w", err))
	}

	order := &domain.Order{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		UserEmail:      req.UserEmail,
		ProviderID:     p.ID,
		AdminUID:       p.AdminUID,
		ProviderName:   p.Name,
		Category:       string(p.Category),
		Amount:         domain.AmountFor(p.Price, s.defaultAmount),
		Status:         domain.StatusPaid,
		IdempotencyKey: req.IdempotencyKey,
	}

	created, isNew, err := s.orders.Create(ctx, order)
	if err != nil {
		return fail(err)
	}
	if err := checkout.Succeed(); err != nil {
		return nil, err
	}

	if keyed {
		if err := s.idempotency.Complete(ctx, req.UserID, req.IdempotencyKey, created.ID); err != nil {
			log.Warn("idempotency key not completed", "order_id", created.ID, "error", err)
		}
	}
	if isNew {
		log.Info("order created", "order_id", created.ID, "provider_id", p.ID, "amount", created.Amount)
		realtime.PublishAll(ctx, s.bus, realtime.KindCreated, created.ID,
			realtime.ProviderOrdersTopic(p.ID), realtime.UserOrdersTopic(req.UserID))
	}

	return &BookResult{Order: created, Replayed: !isNew, State: checkout.State()}, nil
}

// replayStored answers a key still marked in flight. If the order was
// written but the key never completed, the stored order is replayed and
// the key repaired.
func (s *BookingService) replayStored(ctx context.Context, req BookRequest) (*BookResult, error) {
	o, err := s.orders.GetByIdempotencyKey(ctx, req.UserID, req.IdempotencyKey)
	if errors.Is(err, domain.ErrOrderNotFound) {
		return nil, domain.ErrBookingInProgress
	}
	if err != nil {
		return nil, err
	}

	if err := s.idempotency.Complete(ctx, req.UserID, req.IdempotencyKey, o.ID); err != nil {
		logger.FromContext(ctx).Warn("idempotency key not repaired", "order_id", o.ID, "error", err)
	}
	return &BookResult{Order: o, Replayed: true, State: domain.CheckoutSuccess}, nil
}

// simulatePayment stands in for a payment gateway call.
func (s *BookingService) simulatePayment(ctx context.Context) error {
	timer := time.NewTimer(s.paymentDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// OrderHistory returns the customer's orders newest first and their total.
func (s *BookingService) OrderHistory(ctx context.Context, userID string) ([]domain.Order, float64, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return orders, domain.TotalSpent(orders), nil
}
