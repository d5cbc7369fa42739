// Package credential turns plaintext passwords into storable secrets and
// verifies plaintext candidates against them. The stored secret is a bcrypt
// modular-crypt string that embeds the algorithm tag, work factor, salt and
// digest, so no other metadata has to be persisted alongside it.
package credential

import (
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the bcrypt work factor used when none is configured.
	DefaultCost = 10
	// MinCost is the lowest accepted work factor.
	MinCost = bcrypt.MinCost
	// MaxCost is the highest accepted work factor.
	MaxCost = bcrypt.MaxCost
	// MaxPasswordBytes is the longest plaintext bcrypt will accept.
	MaxPasswordBytes = 72

	secretLen = 60
	// $2a$10$ : prefix, two-digit cost, separator.
	headerLen = 7
)

var (
	// ErrHashingFailure is returned when a plaintext could not be turned into a secret.
	ErrHashingFailure = errors.New("credential: hashing failed")
	// ErrMalformedSecret is returned when a stored secret cannot be parsed.
	ErrMalformedSecret = errors.New("credential: malformed stored secret")
	// ErrEmptyPassword is returned when Derive receives an empty plaintext.
	ErrEmptyPassword = errors.New("credential: password cannot be empty")
	// ErrPasswordTooLong is returned when the plaintext exceeds MaxPasswordBytes.
	ErrPasswordTooLong = errors.New("credential: password exceeds 72 bytes")
	// ErrInvalidCost is returned by New for a work factor outside [MinCost, MaxCost].
	ErrInvalidCost = errors.New("credential: invalid work factor")
)

// Manager derives and verifies stored secrets. It keeps no state besides the
// configured work factor and is safe for concurrent use.
type Manager struct {
	cost     int
	generate func(password []byte, cost int) ([]byte, error)
}

// New returns a Manager that derives new secrets with the given work factor.
func New(cost int) (*Manager, error) {
	if cost < MinCost || cost > MaxCost {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCost, cost)
	}
	return &Manager{cost: cost, generate: bcrypt.GenerateFromPassword}, nil
}

// Derive hashes plaintext with a freshly generated salt. Two calls with the
// same plaintext never return the same secret.
func (m *Manager) Derive(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	if len(plaintext) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hash, err := m.generate([]byte(plaintext), m.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashingFailure, err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches storedSecret. The work factor and
// salt are taken from storedSecret, so secrets derived under an older cost
// keep verifying. A secret that does not parse yields ErrMalformedSecret
// rather than a plain mismatch.
func (m *Manager) Verify(plaintext, storedSecret string) (bool, error) {
	if _, err := parse(storedSecret); err != nil {
		return false, err
	}

	err := bcrypt.CompareHashAndPassword([]byte(storedSecret), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	case isParseError(err):
		return false, fmt.Errorf("%w: %v", ErrMalformedSecret, err)
	default:
		return false, fmt.Errorf("%w: %v", ErrHashingFailure, err)
	}
}

// NeedsRehash reports whether storedSecret was derived with a work factor
// other than the manager's. Malformed secrets always need a rehash.
func (m *Manager) NeedsRehash(storedSecret string) bool {
	cost, err := parse(storedSecret)
	return err != nil || cost != m.cost
}

// Cost returns the work factor embedded in storedSecret.
func Cost(storedSecret string) (int, error) {
	return parse(storedSecret)
}

// parse validates the modular-crypt layout $2x$NN$<53 chars> and returns the
// embedded cost.
func parse(secret string) (int, error) {
	if len(secret) != secretLen {
		return 0, fmt.Errorf("%w: length %d", ErrMalformedSecret, len(secret))
	}
	if secret[0] != '$' || secret[1] != '2' || secret[3] != '$' || secret[6] != '$' {
		return 0, fmt.Errorf("%w: unexpected prefix", ErrMalformedSecret)
	}
	switch secret[2] {
	case 'a', 'b', 'y':
	default:
		return 0, fmt.Errorf("%w: unsupported variant %q", ErrMalformedSecret, secret[2])
	}

	cost, err := strconv.Atoi(secret[4:6])
	if err != nil {
		return 0, fmt.Errorf("%w: cost: %v", ErrMalformedSecret, err)
	}
	if cost < MinCost || cost > MaxCost {
		return 0, fmt.Errorf("%w: cost %d out of range", ErrMalformedSecret, cost)
	}

	for i := headerLen; i < len(secret); i++ {
		if !isBcryptAlphabet(secret[i]) {
			return 0, fmt.Errorf("%w: invalid character at %d", ErrMalformedSecret, i)
		}
	}
	return cost, nil
}

func isBcryptAlphabet(c byte) bool {
	return c == '.' || c == '/' ||
		(c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9')
}

func isParseError(err error) bool {
	var (
		prefixErr  bcrypt.InvalidHashPrefixError
		costErr    bcrypt.InvalidCostError
		versionErr bcrypt.HashVersionTooNewError
	)
	return errors.Is(err, bcrypt.ErrHashTooShort) ||
		errors.As(err, &prefixErr) ||
		errors.As(err, &costErr) ||
		errors.As(err, &versionErr)
}
