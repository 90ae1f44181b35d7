package ports

import (
	"context"
	"time"

	"github.com/marketbay/order-system/internal/core/domain"
	"github.com/marketbay/order-system/internal/listing"
)

// ListOrdersFilter carries all query parameters for listing orders.
// OwnerID is always set by the service layer; listings are never global.
type ListOrdersFilter struct {
	OwnerID string
	Status  domain.OrderStatus // optional, exact match
	Query   listing.Query
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	// Create inserts the order and returns it with its assigned id.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// UpdateStatus performs a compare-and-set: the status is written only if
	// the stored status still equals from. Fails with domain.ErrOrderNotFound
	// when no order has the id, or domain.ErrStaleStatus when the order exists
	// but its status no longer matches from (a concurrent writer won the race).
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, at time.Time) (*domain.Order, error)
	// List returns a page of orders matching filter and the total count before
	// pagination.
	List(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, int64, error)
}
