package ports

import (
	"context"

	"github.com/marketbay/order-system/internal/core/domain"
	"github.com/marketbay/order-system/internal/listing"
)

// RegisterInput carries registration data already validated at the transport
// boundary (email format, password length, non-empty name).
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Roles    []string // empty defaults to {client}
}

// ProfileUpdate carries optional profile changes; nil fields are untouched.
type ProfileUpdate struct {
	Name  *string
	Email *string
}

// ListUsersInput carries raw listing parameters for the admin user listing.
type ListUsersInput struct {
	Search    string
	Role      string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// IdentityService defines the use-case operations of the identity store.
type IdentityService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Login returns a signed bearer token and the authenticated user. Unknown
	// email and wrong password fail identically with ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*domain.User, error)
	// ListUsers requires the caller to hold the admin role; roles are re-read
	// from the store at call time, never trusted from the token.
	ListUsers(ctx context.Context, callerID string, in ListUsersInput) (*listing.Page[*domain.User], error)
}
