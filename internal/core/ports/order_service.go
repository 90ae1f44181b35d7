package ports

import (
	"context"

	"github.com/marketbay/order-system/internal/core/domain"
	"github.com/marketbay/order-system/internal/listing"
)

// OrderItemInput is one line item of a create request.
type OrderItemInput struct {
	Name        string
	Quantity    int
	Description string
	UnitPrice   float64
}

// ListOrdersInput carries raw listing parameters for the order listing.
type ListOrdersInput struct {
	Status    string // optional status filter, exact match
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// OrderService defines the use-case operations of the order store.
// Every operation that touches an existing order checks existence first
// (ErrOrderNotFound), then strict ownership (ErrAccessDenied).
type OrderService interface {
	Create(ctx context.Context, ownerID string, items []OrderItemInput) (*domain.Order, error)
	Get(ctx context.Context, orderID, callerID string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID, callerID string, next domain.OrderStatus) (*domain.Order, error)
	// Cancel is UpdateStatus(..., CANCELLED) with dedicated diagnostics:
	// ErrAlreadyCancelled and ErrCancelCompleted instead of the generic
	// transition error.
	Cancel(ctx context.Context, orderID, callerID string) (*domain.Order, error)
	// List is always scoped to the owner's own orders.
	List(ctx context.Context, ownerID string, in ListOrdersInput) (*listing.Page[*domain.Order], error)
}
