package models

import "time"

// Credential stores a user's bcrypt password hash, kept apart from the
// profile record so profile reads never carry it.
type Credential struct {
	UserID       string    `json:"user_id"`
	PasswordHash string    `json:"password_hash"`
	UpdatedAt    time.Time `json:"updated_at"`
}
