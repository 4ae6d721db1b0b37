package services

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"autopecas/internal/metrics"
	"autopecas/internal/repos"
)

// Shopper is the state one browser session owns: who is signed in, what is
// in the cart, and where its checkout stands.
type Shopper struct {
	SID     string
	Session *SessionService
	Cart    *CartService

	mu    sync.Mutex
	state CheckoutState
}

func (sh *Shopper) CheckoutState() CheckoutState {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if sh.state == "" {
		return CheckoutIdle
	}
	return sh.state
}

func (sh *Shopper) beginCheckout() bool {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if sh.state == CheckoutProcessing {
		return false
	}
	sh.state = CheckoutProcessing
	return true
}

func (sh *Shopper) finishCheckout(st CheckoutState) {
	sh.mu.Lock()
	sh.state = st
	sh.mu.Unlock()
}

// Shoppers hands out one Shopper per session id, restoring its persisted
// user and cart on first use. Idle shoppers are dropped from memory; their
// state stays in the store and is restored on the next request.
type Shoppers struct {
	store   repos.Store
	auth    Authenticator
	metrics *metrics.ShopMetrics

	mu    sync.Mutex
	bySID *expirable.LRU[string, *Shopper]
}

const (
	DefaultShopperCapacity = 10000
	DefaultShopperIdle     = 30 * time.Minute
)

type ShoppersOption func(*shoppersConfig)

type shoppersConfig struct {
	capacity int
	idle     time.Duration
}

// WithShopperLimits caps how many sessions stay in memory and how long an
// untouched one is kept.
func WithShopperLimits(capacity int, idle time.Duration) ShoppersOption {
	return func(c *shoppersConfig) {
		if capacity > 0 {
			c.capacity = capacity
		}
		if idle > 0 {
			c.idle = idle
		}
	}
}

func NewShoppers(store repos.Store, auth Authenticator, m *metrics.ShopMetrics, opts ...ShoppersOption) *Shoppers {
	cfg := shoppersConfig{capacity: DefaultShopperCapacity, idle: DefaultShopperIdle}
	for _, o := range opts {
		o(&cfg)
	}
	return &Shoppers{
		store:   store,
		auth:    auth,
		metrics: m,
		bySID:   expirable.NewLRU[string, *Shopper](cfg.capacity, nil, cfg.idle),
	}
}

func (r *Shoppers) Get(ctx context.Context, sid string) (*Shopper, error) {
	if sh, ok := r.bySID.Get(sid); ok {
		r.bySID.Add(sid, sh) // refresh idle deadline
		return sh, nil
	}

	sh, err := r.restore(ctx, sid)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if held, ok := r.bySID.Get(sid); ok {
		return held, nil
	}
	r.bySID.Add(sid, sh)
	return sh, nil
}

// restore builds a shopper from the store without touching the registry.
func (r *Shoppers) restore(ctx context.Context, sid string) (*Shopper, error) {
	scoped := repos.Scoped(r.store, sid)
	session := NewSessionService(scoped, r.auth)
	cart := NewCartService(scoped, session, r.metrics)
	session.cart = cart
	if err := session.Restore(ctx); err != nil {
		return nil, err
	}
	if err := cart.Restore(ctx); err != nil {
		return nil, err
	}
	return &Shopper{SID: sid, Session: session, Cart: cart}, nil
}

// Forget drops the in-memory shopper for sid.
func (r *Shoppers) Forget(sid string) {
	r.bySID.Remove(sid)
}

// Len reports how many sessions are held in memory.
func (r *Shoppers) Len() int {
	return r.bySID.Len()
}
