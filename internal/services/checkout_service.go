package services

import (
	"context"
	"time"

	"autopecas/internal/domain"
	applog "autopecas/internal/log"
	"autopecas/internal/metrics"
)

type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "Idle"
	CheckoutProcessing CheckoutState = "Processing"
	CheckoutCompleted  CheckoutState = "Completed"
	CheckoutFailed     CheckoutState = "Failed"
)

type CheckoutResult struct {
	State     CheckoutState `json:"state"`
	Message   string        `json:"message"`
	Reference string        `json:"reference,omitempty"`
	Order     *domain.Order `json:"order,omitempty"`
}

// CheckoutService turns a shopper's cart into a ledger entry.
//
// The order is built Pending. It becomes Paid and is recorded only after the
// payer reports success; on failure nothing is recorded and the cart stays.
type CheckoutService struct {
	ledger  *OrderService
	payer   Payer
	metrics *metrics.ShopMetrics
	now     func() time.Time
}

func NewCheckoutService(ledger *OrderService, payer Payer, m *metrics.ShopMetrics) *CheckoutService {
	return &CheckoutService{ledger: ledger, payer: payer, metrics: m, now: time.Now}
}

func (s *CheckoutService) Checkout(ctx context.Context, sh *Shopper, method domain.PaymentMethod) (CheckoutResult, error) {
	user := sh.Session.Current()
	if user == nil {
		return CheckoutResult{State: CheckoutIdle}, ErrUnauthenticated
	}
	items := sh.Cart.Items()
	if len(items) == 0 {
		return CheckoutResult{State: CheckoutIdle}, ErrEmptyCart
	}
	if !sh.beginCheckout() {
		return CheckoutResult{State: CheckoutProcessing}, ErrCheckoutInProgress
	}
	started := time.Now()

	order := domain.Order{
		ID:            newOrderID(),
		UserID:        user.ID,
		Items:         items,
		Total:         cartTotal(items),
		PaymentMethod: method,
		Status:        domain.OrderPending,
		CreatedAt:     s.now().UTC().Format(time.RFC3339),
	}

	// the payment cannot be aborted once Processing has begun
	res := s.payer.Process(context.WithoutCancel(ctx), order, method)
	if !res.Success {
		sh.finishCheckout(CheckoutFailed)
		s.metrics.ObserveCheckout(string(CheckoutFailed), string(method), time.Since(started))
		applog.Info(nil, "checkout.failed", map[string]any{"order_id": order.ID, "method": string(method), "message": res.Message})
		return CheckoutResult{State: CheckoutFailed, Message: res.Message}, nil
	}

	order.Status = domain.OrderPaid
	order.PaymentReference = res.Reference
	if err := s.ledger.Record(context.WithoutCancel(ctx), order); err != nil {
		sh.finishCheckout(CheckoutFailed)
		s.metrics.ObserveCheckout(string(CheckoutFailed), string(method), time.Since(started))
		return CheckoutResult{State: CheckoutFailed}, err
	}
	if err := sh.Cart.Clear(context.WithoutCancel(ctx)); err != nil {
		applog.Error(nil, "checkout.cart_clear_failed", err, map[string]any{"order_id": order.ID})
	}
	sh.finishCheckout(CheckoutCompleted)
	s.metrics.ObserveCheckout(string(CheckoutCompleted), string(method), time.Since(started))
	applog.Audit(nil, "checkout.completed", map[string]any{
		"order_id": order.ID, "user_id": user.ID, "total": order.Total, "method": string(method),
	})
	return CheckoutResult{State: CheckoutCompleted, Message: res.Message, Reference: res.Reference, Order: &order}, nil
}
