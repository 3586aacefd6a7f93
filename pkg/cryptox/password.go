// Package cryptox holds the credential hashing and opaque token primitives
// used by the authentication core.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Changing these only affects new hashes; verification
// reads the parameters back out of the stored PHC string.
const (
	memory      = 19 * 1024 // KiB (19 MiB)
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

// ErrPasswordMismatch is returned when the password does not match the hash.
var ErrPasswordMismatch = errors.New("cryptox: password does not match")

// PasswordHasher hashes and verifies passwords with argon2id. The zero value
// is ready to use; it exists as a type so callers can depend on an interface
// and swap in a fake for tests.
type PasswordHasher struct{}

// Hash generates a PHC-format argon2id string with a fresh random salt, so
// equal passwords never produce equal hashes.
func (PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verify compares password against a PHC-style argon2id hash in constant
// time. Any malformed stored hash verifies as a mismatch rather than an
// abort, so a corrupted row can never bypass or crash a login.
func (PasswordHasher) Verify(password, encodedHash string) error {
	salt, expected, iters, mem, par, err := decodeHash(encodedHash)
	if err != nil {
		return ErrPasswordMismatch
	}

	computed := argon2.IDKey([]byte(password), salt, iters, mem, par, uint32(len(expected)))

	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}

// decodeHash parses "$argon2id$v=19$m=X,t=Y,p=Z$salt$hash".
func decodeHash(encoded string) (salt, hash []byte, iters, mem uint32, par uint8, err error) {
	parts := make([]string, 0, 6)
	start := 0
	for i := range len(encoded) {
		if encoded[i] == '$' {
			parts = append(parts, encoded[start:i])
			start = i + 1
		}
	}
	parts = append(parts, encoded[start:])

	if len(parts) != 6 {
		return nil, nil, 0, 0, 0, errors.New("cryptox: malformed hash")
	}
	if parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, errors.New("cryptox: not argon2id")
	}
	if parts[2] != "v=19" {
		return nil, nil, 0, 0, 0, errors.New("cryptox: unsupported argon2 version")
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("cryptox: parse parameters: %w", err)
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("cryptox: decode salt: %w", err)
	}
	hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("cryptox: decode hash: %w", err)
	}
	if len(hash) == 0 {
		return nil, nil, 0, 0, 0, errors.New("cryptox: empty hash")
	}

	return salt, hash, iters, mem, par, nil
}
