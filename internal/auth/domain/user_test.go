package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)

func TestRecordFailureLocksAtThreshold(t *testing.T) {
	u := &User{}

	// Four failures accumulate without locking.
	for i := 1; i <= 4; i++ {
		u.RecordFailure(baseTime, 5, 15*time.Minute)
		require.Equal(t, i, u.FailedAttempts)
		require.False(t, u.IsLocked(baseTime))
	}

	// Fifth failure trips the lockout and resets the counter in one step.
	u.RecordFailure(baseTime, 5, 15*time.Minute)
	require.Equal(t, 0, u.FailedAttempts)
	require.NotNil(t, u.LockoutExpiresAt)
	require.Equal(t, baseTime.Add(15*time.Minute), *u.LockoutExpiresAt)
	require.True(t, u.IsLocked(baseTime))
}

func TestRecordFailureNoOpWhileLocked(t *testing.T) {
	u := &User{}
	for range 5 {
		u.RecordFailure(baseTime, 5, 15*time.Minute)
	}
	require.True(t, u.IsLocked(baseTime))

	// Further failures inside the window change nothing.
	u.RecordFailure(baseTime.Add(time.Minute), 5, 15*time.Minute)
	require.Equal(t, 0, u.FailedAttempts)
	require.Equal(t, baseTime.Add(15*time.Minute), *u.LockoutExpiresAt)
}

func TestLockoutExpiresStrictly(t *testing.T) {
	u := &User{}
	for range 5 {
		u.RecordFailure(baseTime, 5, 15*time.Minute)
	}

	require.True(t, u.IsLocked(baseTime.Add(15*time.Minute-time.Second)))
	// Locked iff expiry is strictly in the future.
	require.False(t, u.IsLocked(baseTime.Add(15*time.Minute)))
	require.False(t, u.IsLocked(baseTime.Add(15*time.Minute+time.Second)))
}

func TestRecordSuccessDoesNotResetFailures(t *testing.T) {
	u := &User{}
	u.RecordFailure(baseTime, 5, 15*time.Minute)
	u.RecordFailure(baseTime, 5, 15*time.Minute)
	u.RecordFailure(baseTime, 5, 15*time.Minute)

	u.RecordSuccess(baseTime)
	require.NotNil(t, u.LastLoginAt)
	require.Equal(t, baseTime, *u.LastLoginAt)
	require.Equal(t, 3, u.FailedAttempts, "success leaves the failure counter alone")

	// Two more cumulative failures still lock the account.
	u.RecordFailure(baseTime, 5, 15*time.Minute)
	u.RecordFailure(baseTime, 5, 15*time.Minute)
	require.True(t, u.IsLocked(baseTime))
}

func TestFailedAttemptsStayBelowMaximum(t *testing.T) {
	u := &User{}
	for range 23 {
		u.RecordFailure(baseTime, 5, 15*time.Minute)
		require.Less(t, u.FailedAttempts, 5)
	}
}

func TestAttachAndFindRefreshToken(t *testing.T) {
	u := &User{}
	first := RefreshToken{Token: "tok-1", IssuedAt: baseTime, ExpiresAt: baseTime.Add(7 * 24 * time.Hour)}
	second := RefreshToken{Token: "tok-2", IssuedAt: baseTime, ExpiresAt: baseTime.Add(7 * 24 * time.Hour)}

	u.AttachRefreshToken(first)
	u.AttachRefreshToken(second)
	require.Len(t, u.RefreshTokens, 2)

	found := u.FindRefreshToken("tok-2")
	require.NotNil(t, found)
	require.Equal(t, "tok-2", found.Token)

	require.Nil(t, u.FindRefreshToken("tok-3"))

	// Mutations through the returned pointer land in the ledger.
	found.Revoke(baseTime)
	require.True(t, u.RefreshTokens[1].IsRevoked())
}

func TestRefreshTokenLifecycle(t *testing.T) {
	expires := baseTime.Add(7 * 24 * time.Hour)
	tok := RefreshToken{Token: "tok", IssuedAt: baseTime, ExpiresAt: expires}

	require.True(t, tok.IsUsable(baseTime))
	require.True(t, tok.IsUsable(expires.Add(-time.Second)))

	// Expiry boundary: now >= expiresAt counts as expired.
	require.True(t, tok.IsExpired(expires))
	require.True(t, tok.IsExpired(expires.Add(time.Second)))
	require.False(t, tok.IsUsable(expires))

	// Revocation is permanent and keeps the original timestamp.
	tok.Revoke(baseTime.Add(time.Hour))
	require.True(t, tok.IsRevoked())
	require.False(t, tok.IsUsable(baseTime.Add(2*time.Hour)))
	firstRevokedAt := *tok.RevokedAt

	tok.Revoke(baseTime.Add(3 * time.Hour))
	require.Equal(t, firstRevokedAt, *tok.RevokedAt)
}
