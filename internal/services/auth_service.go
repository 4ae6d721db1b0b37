package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"autopecas/internal/domain"
	apperrors "autopecas/internal/errors"
	"autopecas/internal/repos"
)

type Credentials struct {
	Email    string
	Password string
	Name     string
}

// Authenticator verifies credentials and returns the matching user.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (*domain.User, error)
}

// DemoAuthenticator accepts any email after Delay. It grants the admin role
// only to AdminEmail. Placeholder for local demos, not a security boundary.
type DemoAuthenticator struct {
	AdminEmail string
	Delay      time.Duration
}

func (a *DemoAuthenticator) Authenticate(ctx context.Context, creds Credentials) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" {
		return nil, ErrBadCreds
	}
	if err := sleepCtx(ctx, a.Delay); err != nil {
		return nil, err
	}
	role := domain.RoleCustomer
	if strings.EqualFold(email, a.AdminEmail) {
		role = domain.RoleAdmin
	}
	name := strings.TrimSpace(creds.Name)
	if name == "" {
		name = email
		if at := strings.IndexByte(email, '@'); at > 0 {
			name = email[:at]
		}
	}
	// stable per email so order history survives a new login
	id := "usr-" + strings.ReplaceAll(uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String(), "-", "")[:8]
	return &domain.User{ID: id, Name: name, Email: email, Role: role}, nil
}

// PasswordAuthenticator checks bcrypt hashes stored in the users table.
type PasswordAuthenticator struct {
	Users *repos.UserRepo
}

func (a *PasswordAuthenticator) Authenticate(ctx context.Context, creds Credentials) (*domain.User, error) {
	u, err := a.Users.ByEmail(ctx, strings.TrimSpace(creds.Email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBadCreds
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "user lookup failed")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(creds.Password)) != nil {
		return nil, ErrBadCreds
	}
	u.Hash = ""
	return u, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
