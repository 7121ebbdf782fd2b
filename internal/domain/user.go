package domain

import "time"

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive UserStatus = "ACTIVE"
	UserStatusBanned UserStatus = "BANNED"
)

// User is the domain model for pledge participants and administrators.
// Role holds the raw role string; interpretation belongs to the authz
// package.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Points       int64
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Banned reports whether the account is blocked from participating.
func (u *User) Banned() bool {
	return u.Status == UserStatusBanned
}
