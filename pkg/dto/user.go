package dto

import (
	"time"

	"github.com/google/uuid"
)

// UserRead is a read-optimized DTO for user queries and API responses.
type UserRead struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserCreate is a DTO for registering a new user.
type UserCreate struct {
	ID       uuid.UUID
	Name     string
	Email    string
	Password string // bcrypt hash, never the plain password
}

// UserWithCredentials carries the password hash for login verification only.
// It never crosses the web API boundary.
type UserWithCredentials struct {
	UserRead
	Password string
}
