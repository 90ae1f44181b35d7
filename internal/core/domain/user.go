package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("user with this email already exists")
var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrInvalidToken = errors.New("invalid token")
var ErrAdminRequired = errors.New("admin access required")
var ErrTooManyAttempts = errors.New("too many login attempts")
var ErrInvalidRole = errors.New("invalid role")

// ValidRole reports whether r is a recognised role name.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleClient
}

// User models a registered account. Roles always holds at least one entry;
// registration defaults it to {client}.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Name         string    `json:"name" bson:"name"`
	Roles        []string  `json:"roles" bson:"roles"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// HasRole reports whether the user's role set contains role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
