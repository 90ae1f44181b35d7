package ports

import (
	"context"

	"github.com/marketbay/order-system/internal/core/domain"
	"github.com/marketbay/order-system/internal/listing"
)

// ListUsersFilter carries all query parameters for the admin user listing.
type ListUsersFilter struct {
	Search string // case-insensitive substring match on name OR email
	Role   string // exact match against the role set
	Query  listing.Query
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create inserts the user and returns it with its assigned id.
	// Fails with domain.ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Update persists name/email/updated_at changes.
	// Fails with domain.ErrEmailTaken when the new email belongs to another user.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	// List returns a page of users matching filter and the total count before
	// pagination.
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
}
