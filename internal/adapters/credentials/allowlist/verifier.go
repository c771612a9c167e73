package allowlist

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bnema/punini-cli/internal/domain"
	"github.com/bnema/punini-cli/internal/ports"
	"golang.org/x/crypto/bcrypt"
)

// DefaultUsers is the demo allow-list.
func DefaultUsers() map[string]string {
	return map[string]string{
		"traveler": "pisang123",
		"owner":    "admin123",
	}
}

// Verifier holds bcrypt hashes of the allowed users keyed by lower-cased
// username. Unknown users are compared against a decoy hash so both failure
// paths cost the same.
type Verifier struct {
	hashes map[string][]byte
	decoy  []byte
}

var _ ports.CredentialVerifier = (*Verifier)(nil)

// NewVerifier hashes plaintext passwords with cost. Values that already look
// like bcrypt hashes are used as-is.
func NewVerifier(users map[string]string, cost int) (*Verifier, error) {
	if len(users) == 0 {
		return nil, errors.New("allow-list is empty")
	}

	hashes := make(map[string][]byte, len(users))
	for _, name := range sortedNames(users) {
		canonical := canonicalName(name)
		if canonical == "" {
			return nil, errors.New("allow-list contains an empty username")
		}
		if _, dup := hashes[canonical]; dup {
			return nil, fmt.Errorf("allow-list contains %q twice", canonical)
		}

		hash, err := hashSecret(users[name], cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %q: %w", canonical, err)
		}
		hashes[canonical] = hash
	}

	decoy, err := bcrypt.GenerateFromPassword([]byte("decoy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("hash decoy password: %w", err)
	}

	return &Verifier{hashes: hashes, decoy: decoy}, nil
}

func (v *Verifier) Verify(ctx context.Context, username string, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	canonical := canonicalName(username)
	hash, ok := v.hashes[canonical]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(v.decoy, []byte(password))
		return "", domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	return canonical, nil
}

func (v *Verifier) Users() []string {
	names := make([]string, 0, len(v.hashes))
	for name := range v.hashes {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func hashSecret(secret string, cost int) ([]byte, error) {
	if isBcryptHash(secret) {
		if _, err := bcrypt.Cost([]byte(secret)); err != nil {
			return nil, err
		}
		return []byte(secret), nil
	}
	if secret == "" {
		return nil, errors.New("password is empty")
	}

	return bcrypt.GenerateFromPassword([]byte(secret), cost)
}

func isBcryptHash(secret string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(secret, prefix) {
			return true
		}
	}

	return false
}

func canonicalName(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func sortedNames(users map[string]string) []string {
	names := make([]string, 0, len(users))
	for name := range users {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
