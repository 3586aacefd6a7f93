package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vantagehq/vantage-auth/internal/auth/domain"
	"github.com/vantagehq/vantage-auth/internal/auth/store"
	"github.com/vantagehq/vantage-auth/pkg/clockx"
	"github.com/vantagehq/vantage-auth/pkg/cryptox"
	"github.com/vantagehq/vantage-auth/pkg/jwtx"
	"github.com/vantagehq/vantage-auth/pkg/slogx"
)

// PasswordHasher abstracts credential hashing so tests can swap in a cheap
// fake. The production implementation is cryptox.PasswordHasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) error
}

// Policy holds the account-lockout and token-lifetime rules. Supplied
// explicitly at construction; the service never reads ambient state.
type Policy struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// MaxLoginAttempts failures in a row lock the account for
	// LockoutDuration.
	MaxLoginAttempts int
	LockoutDuration  time.Duration
}

// AuthService coordinates the store, clock, hasher, and signer to implement
// the login and refresh use cases. It is the only place business rules live.
type AuthService struct {
	Store  store.Store
	Clock  clockx.Clock
	Hasher PasswordHasher
	Signer *jwtx.HS256Signer
	Policy Policy
}

// Authenticate verifies the credentials and returns a fresh token bundle.
//
// Failure modes, in evaluation order: malformed request (no store access),
// unknown account, locked account (checked before the password so a locked
// account never accumulates further failures), wrong password. A wrong
// password records a failed attempt and may trip the lockout.
func (s *AuthService) Authenticate(ctx context.Context, req LoginRequest) (*domain.TokenBundle, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("account does not exist")
		}
		return nil, persistence(err)
	}

	now := s.Clock.Now()

	if user.IsLocked(now) {
		l.Info("login rejected: account locked", slog.String("user_id", user.ID))
		return nil, forbidden("account locked")
	}

	if err := s.Hasher.Verify(req.Password, user.PasswordHash); err != nil {
		user.RecordFailure(now, s.Policy.MaxLoginAttempts, s.Policy.LockoutDuration)
		if user.IsLocked(now) {
			l.Warn("account locked after repeated failures", slog.String("user_id", user.ID))
		}
		if err := s.save(ctx, user); err != nil {
			return nil, err
		}
		return nil, unauthorized("invalid credentials")
	}

	bundle, err := s.issueTokens(&user, now)
	if err != nil {
		return nil, err
	}
	user.RecordSuccess(now)

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	l.Info("login succeeded", slog.String("user_id", user.ID))
	return bundle, nil
}

// Refresh exchanges a refresh token for a new token bundle, revoking the old
// token in the same commit. Rotation is strictly one-hop: a token can be
// exchanged exactly once, and an expired or already-revoked token is
// rejected outright.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*domain.TokenBundle, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetByRefreshToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("no token found")
		}
		return nil, persistence(err)
	}

	now := s.Clock.Now()

	entry := user.FindRefreshToken(req.Token)
	if entry == nil {
		// The store found the owner, so the entry must exist; treat a
		// mismatch as an unknown token.
		return nil, notFound("no token found")
	}
	if !entry.IsUsable(now) {
		l.Info("refresh rejected: token expired or revoked", slog.String("user_id", user.ID))
		return nil, unauthorized("invalid or expired token")
	}

	entry.Revoke(now)

	bundle, err := s.issueTokens(&user, now)
	if err != nil {
		return nil, err
	}

	// Revocation of the old entry and creation of the new one land in the
	// same commit inside save.
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	l.Info("refresh token rotated", slog.String("user_id", user.ID))
	return bundle, nil
}

// issueTokens mints the signed access token plus a new opaque refresh token
// and appends the latter to the user's ledger.
func (s *AuthService) issueTokens(user *domain.User, now time.Time) (*domain.TokenBundle, error) {
	issuedAt := now
	expiresAt := issuedAt.Add(s.Policy.AccessTTL)

	accessToken, err := s.Signer.Sign(jwtx.NewAccessClaims(
		user.ID,
		user.Name,
		s.Signer.Issuer(),
		[]string{s.Signer.Audience()},
		issuedAt,
		expiresAt,
	))
	if err != nil {
		return nil, err
	}

	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize512)
	if err != nil {
		return nil, err
	}

	user.AttachRefreshToken(domain.RefreshToken{
		Token:     refreshOpaque,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(s.Policy.RefreshTTL),
	})

	return &domain.TokenBundle{
		AccessToken:  accessToken,
		RefreshToken: refreshOpaque,
		IssuedAt:     issuedAt,
		ExpiresAt:    expiresAt,
		TTLSeconds:   int64(s.Policy.AccessTTL.Seconds()),
	}, nil
}

// save commits the whole aggregate in a single transaction. A failed commit
// surfaces as KindPersistence so callers know the whole use case is safe to
// retry.
func (s *AuthService) save(ctx context.Context, user domain.User) error {
	user.UpdatedAt = s.Clock.Now()
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Users().Save(ctx, user)
	})
	if err != nil {
		return persistence(err)
	}
	return nil
}
