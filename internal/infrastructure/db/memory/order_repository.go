package memory

import (
	"context"
	"sync"
	"time"

	"github.com/marketbay/order-system/internal/core/domain"
	"github.com/marketbay/order-system/internal/core/ports"
	"github.com/marketbay/order-system/internal/listing"
)

// OrderRepository is a mutex-guarded in-memory ports.OrderRepository.
// UpdateStatus holds the write lock across read-compare-write, giving the
// same serialization guarantee the mongo implementation gets from a
// single-document FindOneAndUpdate.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]*domain.Order)}
}

func cloneOrder(o *domain.Order) *domain.Order {
	clone := *o
	clone.Items = append([]domain.OrderItem(nil), o.Items...)
	return &clone
}

func (r *OrderRepository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneOrder(order)
	if stored.ID == "" {
		stored.ID = newID()
	}
	r.orders[stored.ID] = stored
	return cloneOrder(stored), nil
}

func (r *OrderRepository) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id string, from, to domain.OrderStatus, at time.Time) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if o.Status != from {
		return nil, domain.ErrStaleStatus
	}

	o.Status = to
	o.UpdatedAt = at
	return cloneOrder(o), nil
}

func (r *OrderRepository) List(_ context.Context, filter ports.ListOrdersFilter) ([]*domain.Order, int64, error) {
	r.mu.RLock()
	all := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		all = append(all, cloneOrder(o))
	}
	r.mu.RUnlock()

	keep := func(o *domain.Order) bool {
		if o.OwnerID != filter.OwnerID {
			return false
		}
		if filter.Status != "" && o.Status != filter.Status {
			return false
		}
		return true
	}

	page := listing.Apply(all, keep, orderLess(filter.Query), func(o *domain.Order) string { return o.ID }, filter.Query)
	return page.Items, page.Total, nil
}

func orderLess(q listing.Query) func(a, b *domain.Order) bool {
	asc := func(a, b *domain.Order) bool {
		switch q.SortBy {
		case "total_amount":
			return a.TotalAmount < b.TotalAmount
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	if q.SortOrder == listing.OrderAsc {
		return asc
	}
	return func(a, b *domain.Order) bool { return asc(b, a) }
}
