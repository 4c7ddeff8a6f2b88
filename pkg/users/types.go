package users

import "time"

// User is a registered account. The password is only ever stored as a bcrypt
// digest; the plaintext never leaves the registration/login handlers.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
