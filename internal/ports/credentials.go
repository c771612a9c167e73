package ports

import "context"

// CredentialVerifier checks a username/password pair against an allow-list.
// On success it returns the canonical username. Any mismatch yields
// domain.ErrInvalidCredentials without saying which field was wrong.
type CredentialVerifier interface {
	Verify(ctx context.Context, username string, password string) (string, error)
}
