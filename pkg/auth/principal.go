package auth

import (
	"context"
	"errors"

	"github.com/studyhall/studyhall/pkg/users"
)

// RoleUser is the single authority every authenticated principal carries
const RoleUser = "ROLE_USER"

// ErrUserNotFound is returned by the resolver when no backing record exists
var ErrUserNotFound = errors.New("user not found")

// Principal is the resolved identity for one authentication event or one
// request. It is derived 1:1 from a stored user and never persisted.
type Principal struct {
	ID           int64
	Username     string // the user's email
	PasswordHash string
	Authorities  []string
}

// NewPrincipal derives a principal from a stored user record
func NewPrincipal(u *users.User) *Principal {
	return &Principal{
		ID:           u.ID,
		Username:     u.Email,
		PasswordHash: u.PasswordHash,
		Authorities:  []string{RoleUser},
	}
}

// CredentialStore is the slice of the user store the auth subsystem needs
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*users.User, error)
	GetByID(ctx context.Context, id int64) (*users.User, error)
}

// Resolver maps store lookups to principals. Pure mapping, no side effects.
type Resolver struct {
	store CredentialStore
}

// NewResolver creates a principal resolver backed by the given store
func NewResolver(store CredentialStore) *Resolver {
	return &Resolver{store: store}
}

// ResolveByEmail loads the user with the given email and wraps it in a principal
func (r *Resolver) ResolveByEmail(ctx context.Context, email string) (*Principal, error) {
	u, err := r.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return NewPrincipal(u), nil
}

// ResolveByID loads the user with the given ID and wraps it in a principal
func (r *Resolver) ResolveByID(ctx context.Context, id int64) (*Principal, error) {
	u, err := r.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return NewPrincipal(u), nil
}
