package model

import "time"

// User is a local account row. It backs the principal resolver: the id is
// the owner id stamped on every product and ingredient the user creates.
// PasswordHash is a bcrypt hash and must never be serialized.
type User struct {
	ID           uint64    `json:"id"`        // users.id
	Email        string    `json:"email"`     // users.email (unique)
	Username     string    `json:"username"`  // users.username
	PasswordHash string    `json:"-"`         // users.password_hash
	CreatedAt    time.Time `json:"createdAt"` // users.created_at
	UpdatedAt    time.Time `json:"updatedAt"` // users.updated_at
}
