package domain

import "time"

// User is the aggregate root for an account. It owns the failed-attempt
// counter, the lockout window, and the refresh-token ledger; all lockout and
// rotation rules live on its methods so they can be checked in isolation.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // argon2id encoded, never the plaintext

	LastLoginAt      *time.Time
	LockoutExpiresAt *time.Time // set only while locked
	FailedAttempts   int

	// RefreshTokens is append-only: rotation revokes entries, it never
	// removes them, so the ledger doubles as an audit trail.
	RefreshTokens []RefreshToken

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLocked reports whether the account is locked at the given instant.
// An account is locked iff a lockout expiry is set and still in the future.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockoutExpiresAt != nil && u.LockoutExpiresAt.After(now)
}

// RecordFailure registers one failed login attempt. While locked it is a
// no-op, so being locked never accumulates further failures. Reaching
// maxAttempts resets the counter to zero and starts the lockout window in
// the same step, which keeps FailedAttempts below maxAttempts at all times.
func (u *User) RecordFailure(now time.Time, maxAttempts int, lockoutFor time.Duration) {
	if u.IsLocked(now) {
		return
	}

	u.FailedAttempts++

	if u.FailedAttempts >= maxAttempts {
		u.FailedAttempts = 0
		expires := now.Add(lockoutFor)
		u.LockoutExpiresAt = &expires
	}
}

// RecordSuccess stamps the last successful login. It deliberately does not
// reset FailedAttempts: failures only reset when the lockout triggers.
func (u *User) RecordSuccess(now time.Time) {
	t := now
	u.LastLoginAt = &t
}

// AttachRefreshToken appends a freshly issued token to the ledger.
func (u *User) AttachRefreshToken(t RefreshToken) {
	u.RefreshTokens = append(u.RefreshTokens, t)
}

// FindRefreshToken returns the ledger entry with the given opaque value, or
// nil if the user does not own it.
func (u *User) FindRefreshToken(token string) *RefreshToken {
	for i := range u.RefreshTokens {
		if u.RefreshTokens[i].Token == token {
			return &u.RefreshTokens[i]
		}
	}
	return nil
}
