package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vantagehq/vantage-auth/internal/auth/domain"
	"github.com/vantagehq/vantage-auth/internal/auth/store"
	"github.com/vantagehq/vantage-auth/pkg/clockx"
	"github.com/vantagehq/vantage-auth/pkg/idx"
	"github.com/vantagehq/vantage-auth/pkg/slogx"
)

// UserService provisions accounts. Kept separate from AuthService so the
// login path never grows write-side admin concerns.
type UserService struct {
	Store  store.Store
	Clock  clockx.Clock
	Hasher PasswordHasher
}

// Create registers a new account with a freshly hashed password. The email
// must be unique; a clash reports KindConflict.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (domain.User, error) {
	if err := req.Validate(); err != nil {
		return domain.User{}, err
	}

	hash, err := s.Hasher.Hash(req.Password)
	if err != nil {
		return domain.User{}, persistence(err)
	}

	now := s.Clock.Now()
	user := domain.User{
		ID:           idx.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, conflict("email already in use")
		}
		return domain.User{}, persistence(err)
	}

	slogx.FromContext(ctx).Info("user created", slog.String("user_id", user.ID))
	return user, nil
}
