package models

import (
	"strings"
	"time"
)

// Role selects a user's functional area.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleManager    Role = "manager"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

// Level is the coarser privilege tier assigned alongside Role for staff.
type Level string

const (
	LevelUser       Level = "user"
	LevelManager    Level = "manager"
	LevelSupervisor Level = "supervisor"
	LevelAdmin      Level = "admin"
)

// NormalizeRole canonicalizes a role string. The legacy "pimpinan"
// (leadership) label maps to supervisor; it was never a distinct role.
func NormalizeRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCustomer:
		return RoleCustomer, true
	case RoleManager:
		return RoleManager, true
	case RoleSupervisor, Role("pimpinan"):
		return RoleSupervisor, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// NormalizeLevel canonicalizes a level string.
func NormalizeLevel(s string) (Level, bool) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelUser:
		return LevelUser, true
	case LevelManager:
		return LevelManager, true
	case LevelSupervisor:
		return LevelSupervisor, true
	case LevelAdmin:
		return LevelAdmin, true
	}
	return "", false
}

// IsStaff reports whether the role may drive fulfilment transitions.
func (r Role) IsStaff() bool {
	return r == RoleManager || r == RoleSupervisor || r == RoleAdmin
}

// MaxHobbies caps the hobby list on a profile.
const MaxHobbies = 3

// Hobby is one entry in a user's hobby list. All three fields are
// required when the entry is present.
type Hobby struct {
	ImageURL    string `json:"image_url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// User is a storefront profile record.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Level     Level     `json:"level"`
	Address   string    `json:"address,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Hobbies   []Hobby   `json:"hobbies,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks field constraints. It returns a validation fault and
// must be called before any write.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return NewValidation("username is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return NewValidation("email is required")
	}
	if _, ok := NormalizeRole(string(u.Role)); !ok {
		return NewValidation("unknown role '%s'", u.Role)
	}
	if _, ok := NormalizeLevel(string(u.Level)); !ok {
		return NewValidation("unknown level '%s'", u.Level)
	}
	if len(u.Hobbies) > MaxHobbies {
		return NewValidation("at most %d hobbies allowed", MaxHobbies)
	}
	for i, h := range u.Hobbies {
		if strings.TrimSpace(h.ImageURL) == "" || strings.TrimSpace(h.Title) == "" || strings.TrimSpace(h.Description) == "" {
			return NewValidation("hobby %d must carry image, title, and description", i+1)
		}
	}
	return nil
}
