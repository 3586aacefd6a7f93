package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the minimum accepted HS256 secret size in bytes.
// Anything shorter than the HMAC-SHA-256 block offers degraded security and
// is treated as a deployment mistake.
const MinSecretLength = 32

var (
	// ErrSecretTooShort reports a missing or undersized signing secret.
	// This is a startup-time configuration failure, never a per-request one.
	ErrSecretTooShort = errors.New("jwtx: signing secret must be at least 32 bytes")

	// ErrInvalidToken reports a token that failed parsing or signature,
	// issuer, audience, or time-window validation.
	ErrInvalidToken = errors.New("jwtx: invalid token")
)

// HS256Signer signs and verifies access tokens with a shared symmetric
// secret using HMAC-SHA-256.
type HS256Signer struct {
	secret   []byte
	issuer   string
	audience string
}

// NewHS256Signer validates the secret and returns a signer. Callers should
// treat an error here as fatal at startup.
func NewHS256Signer(secret, issuer, audience string) (*HS256Signer, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	return &HS256Signer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
	}, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Issuer returns the configured issuer claim value.
func (s *HS256Signer) Issuer() string { return s.issuer }

// Audience returns the configured audience claim value.
func (s *HS256Signer) Audience() string { return s.audience }

// Sign turns claims into a compact signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses tokenString and validates signature, issuer, audience and
// the exp/nbf window before returning the embedded claims.
func (s *HS256Signer) Verify(tokenString string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("jwtx: unexpected signing method %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
