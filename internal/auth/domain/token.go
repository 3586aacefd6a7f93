package domain

import "time"

// RefreshToken is a ledger entry owned by a User; it is never addressed
// independently of its owner. Entries are revoked on rotation, never deleted.
type RefreshToken struct {
	Token     string // opaque, cryptographically random, URL-safe
	IssuedAt  time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time // once set, permanent
}

// IsExpired reports whether the token's lifetime has elapsed at now.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IsRevoked reports whether the token has been revoked.
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsUsable reports whether the token can still be exchanged: neither expired
// nor revoked.
func (t *RefreshToken) IsUsable(now time.Time) bool {
	return !t.IsExpired(now) && !t.IsRevoked()
}

// Revoke stamps the revocation time. Revocation is permanent: a second call
// is a no-op and keeps the original timestamp.
func (t *RefreshToken) Revoke(now time.Time) {
	if !t.IsRevoked() {
		at := now
		t.RevokedAt = &at
	}
}

// TokenBundle is what a successful authenticate or refresh returns: the
// signed access token, the new opaque refresh token, and the access token's
// validity window.
type TokenBundle struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	IssuedAt     time.Time `json:"issued_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	TTLSeconds   int64     `json:"expires_in"`
}
