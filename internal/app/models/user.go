package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the console role of a user
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Identity is a login in the 'auth_users' table
type Identity struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	Email            string     `json:"email" db:"email"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	EmailConfirmedAt *time.Time `json:"emailConfirmedAt,omitempty" db:"email_confirmed_at"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
}

// UserProfile mirrors an identity with its role, in the 'user_profiles' table
type UserProfile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Role      Role      `json:"role" db:"role"`
	FullName  *string   `json:"fullName,omitempty" db:"full_name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// User is an identity joined with its profile. Identities without a profile have role
// user.
type User struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	Role             Role       `json:"role"`
	FullName         *string    `json:"fullName,omitempty"`
	HasProfile       bool       `json:"hasProfile"`
	IsSuperAdmin     bool       `json:"isSuperAdmin"`
	EmailConfirmedAt *time.Time `json:"emailConfirmedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}
