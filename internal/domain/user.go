// internal/domain/user.go
package domain

import (
	"strings"
	"time"
)

// User represents a registered customer. Credential handling (password
// hashing, token issuance) lives in the auth layer; the ledger only
// references users by ID.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// NewUser creates a new User instance. The display username is the local
// part of the email address.
func NewUser(email, passwordHash string) *User {
	username := email
	if at := strings.Index(email, "@"); at > 0 {
		username = email[:at]
	}
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}
