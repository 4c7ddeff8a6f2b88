// Package users persists registered accounts and is the credential store the
// authentication subsystem reads from.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/studyhall/studyhall/pkg/storage"
)

// ErrNotFound is returned when no user matches the lookup key
var ErrNotFound = errors.New("user not found")

// Store provides user persistence over the SQL database
type Store struct {
	db *storage.DB
}

// NewStore creates a new user store
func NewStore(db *storage.DB) *Store {
	return &Store{db: db}
}

// Create inserts a new user and fills in its generated ID and creation time
func (s *Store) Create(ctx context.Context, u *User) error {
	u.CreatedAt = time.Now().UTC()

	id, err := s.db.InsertReturningID(ctx,
		"INSERT INTO users (name, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		u.Name, u.Email, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = id
	return nil
}

// GetByEmail looks up a user by email
func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.get(ctx, "SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?", email)
}

// GetByID looks up a user by ID
func (s *Store) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.get(ctx, "SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?", id)
}

func (s *Store) get(ctx context.Context, query string, arg interface{}) (*User, error) {
	u := &User{}
	err := s.db.QueryRowContext(ctx, s.db.Rebind(query), arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// ExistsByEmail reports whether a user with the given email is registered
func (s *Store) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		s.db.Rebind("SELECT COUNT(*) FROM users WHERE email = ?"), email).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}
