package auth

import (
	"context"
	"errors"
)

// ErrAuthenticationFailed is returned for both unknown emails and wrong
// passwords. Callers must not distinguish the two cases in their responses.
var ErrAuthenticationFailed = errors.New("authentication failed")

// Manager authenticates raw credentials against the credential store
type Manager struct {
	resolver *Resolver
	hasher   *PasswordHasher
}

// NewManager creates an authentication manager
func NewManager(store CredentialStore, hasher *PasswordHasher) *Manager {
	return &Manager{
		resolver: NewResolver(store),
		hasher:   hasher,
	}
}

// Authenticate verifies the email/password pair and returns the derived
// principal. Store failures other than a missing user propagate unchanged;
// missing user and password mismatch both collapse into
// ErrAuthenticationFailed.
func (m *Manager) Authenticate(ctx context.Context, email, password string) (*Principal, error) {
	principal, err := m.resolver.ResolveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// No dummy hash is computed here, so this path returns faster
			// than a wrong password does. Known hardening opportunity.
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}

	if !m.hasher.Verify(password, principal.PasswordHash) {
		return nil, ErrAuthenticationFailed
	}

	return principal, nil
}
