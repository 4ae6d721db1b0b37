package services

import (
	"context"
	"sync"

	"go.uber.org/multierr"

	"autopecas/internal/domain"
	"autopecas/internal/repos"
)

// SessionService holds the signed-in user of one shopper and answers the
// role questions the rest of the shop asks.
type SessionService struct {
	store repos.Store
	auth  Authenticator
	cart  *CartService

	mu   sync.RWMutex
	user *domain.User
}

func NewSessionService(store repos.Store, auth Authenticator) *SessionService {
	return &SessionService{store: store, auth: auth}
}

// Restore reloads the persisted user, if any.
func (s *SessionService) Restore(ctx context.Context) error {
	u, ok, err := loadSlot[*domain.User](ctx, s.store, repos.KeyUser)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok && u != nil && u.ID != "" {
		s.user = u
	} else {
		s.user = nil
	}
	return nil
}

func (s *SessionService) Login(ctx context.Context, creds Credentials) (*domain.User, error) {
	u, err := s.auth.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}
	if err := saveSlot(ctx, s.store, repos.KeyUser, u); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
	cp := *u
	return &cp, nil
}

// Logout forgets the user and empties the cart. Both clears are attempted
// even when one fails.
func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	err := clearSlot(ctx, s.store, repos.KeyUser)
	if s.cart != nil {
		err = multierr.Append(err, s.cart.Clear(ctx))
	} else {
		err = multierr.Append(err, clearSlot(ctx, s.store, repos.KeyCart))
	}
	return err
}

// Current returns a copy of the signed-in user, nil when anonymous.
func (s *SessionService) Current() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	cp := *s.user
	return &cp
}

func (s *SessionService) IsAuthenticated() bool { return s.Current() != nil }

// CanPurchase is false only for administrators; anonymous shoppers may fill a cart.
func (s *SessionService) CanPurchase() bool {
	return !s.Current().IsAdmin()
}

func (s *SessionService) CanManageCatalog() bool {
	return s.Current().IsAdmin()
}
