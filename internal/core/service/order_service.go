package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/marketbay/order-system/internal/core/domain"
	"github.com/marketbay/order-system/internal/core/ports"
	"github.com/marketbay/order-system/internal/listing"
)

// orderSortFields is the allow-list for the order listing.
var orderSortFields = []string{"created_at", "updated_at", "total_amount"}

// casAttempts bounds the read-validate-CAS loop on status transitions. Two
// passes already suffice for a single racing writer; the third is headroom.
const casAttempts = 3

// OrderService implements order creation, retrieval, listing, and the status
// state machine with strict ownership checks.
type OrderService struct {
	repo   ports.OrderRepository
	logger zerolog.Logger
}

func NewOrderService(repo ports.OrderRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, logger: logger}
}

// Create validates the line items, derives total_amount, and persists the
// order with status CREATED regardless of anything the caller asked for.
// The total is accumulated in integer cents so float artifacts cannot creep
// into the stored amount; it is never recomputed afterwards.
func (s *OrderService) Create(ctx context.Context, ownerID string, items []ports.OrderItemInput) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	var totalCents int64
	lineItems := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		cents, ok := priceCents(it.UnitPrice)
		if it.Quantity <= 0 || !ok {
			return nil, domain.ErrInvalidItem
		}
		totalCents += int64(it.Quantity) * cents
		lineItems = append(lineItems, domain.OrderItem{
			Name:        it.Name,
			Quantity:    it.Quantity,
			Description: it.Description,
			UnitPrice:   it.UnitPrice,
		})
	}

	now := time.Now().UTC()
	order := &domain.Order{
		OwnerID:     ownerID,
		Items:       lineItems,
		Status:      domain.StatusCreated,
		TotalAmount: float64(totalCents) / 100,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, err
	}

	s.logger.Info().Str("order_id", created.ID).Str("user_id", ownerID).Msg("order created")
	return created, nil
}

// priceCents converts a unit price to integer cents, rejecting non-positive
// values and more than two decimal places.
func priceCents(price float64) (int64, bool) {
	if price <= 0 {
		return 0, false
	}
	scaled := price * 100
	cents := math.Round(scaled)
	if math.Abs(scaled-cents) > 1e-6 {
		return 0, false
	}
	return int64(cents), true
}

// Get retrieves a single order. Existence is checked before ownership, so a
// missing id is always ErrOrderNotFound and ErrAccessDenied is only returned
// once the order is known to exist.
func (s *OrderService) Get(ctx context.Context, orderID, callerID string) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnership(order.OwnerID, callerID); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus applies one state-machine transition. The write is a
// compare-and-set on the previously observed status; when a concurrent writer
// wins the race the loop re-reads, so a transition out of a terminal state is
// impossible even under contention: the loser observes the winner's state
// and fails the machine check instead of overwriting it.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, callerID string, next domain.OrderStatus) (*domain.Order, error) {
	if !domain.ValidStatus(next) {
		return nil, domain.ErrInvalidStatusChange
	}

	for attempt := 0; attempt < casAttempts; attempt++ {
		order, err := s.repo.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if err := requireOwnership(order.OwnerID, callerID); err != nil {
			return nil, err
		}
		if !order.Status.CanTransitionTo(next) {
			return nil, domain.ErrInvalidStatusChange
		}

		updated, err := s.repo.UpdateStatus(ctx, orderID, order.Status, next, time.Now().UTC())
		if errors.Is(err, domain.ErrStaleStatus) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.logger.Info().
			Str("order_id", orderID).
			Str("from", string(order.Status)).
			Str("to", string(next)).
			Msg("order status updated")
		return updated, nil
	}

	return nil, domain.ErrStaleStatus
}

// Cancel moves the order to CANCELLED with dedicated diagnostics for the two
// terminal states instead of the generic transition error.
func (s *OrderService) Cancel(ctx context.Context, orderID, callerID string) (*domain.Order, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		order, err := s.repo.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if err := requireOwnership(order.OwnerID, callerID); err != nil {
			return nil, err
		}
		switch order.Status {
		case domain.StatusCancelled:
			return nil, domain.ErrAlreadyCancelled
		case domain.StatusCompleted:
			return nil, domain.ErrCancelCompleted
		}

		updated, err := s.repo.UpdateStatus(ctx, orderID, order.Status, domain.StatusCancelled, time.Now().UTC())
		if errors.Is(err, domain.ErrStaleStatus) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.logger.Info().Str("order_id", orderID).Msg("order cancelled")
		return updated, nil
	}

	return nil, domain.ErrStaleStatus
}

// List returns a page of the owner's orders. The scope is always the caller's
// own orders; there is no cross-owner listing.
func (s *OrderService) List(ctx context.Context, ownerID string, in ports.ListOrdersInput) (*listing.Page[*domain.Order], error) {
	q := listing.Normalize(in.Page, in.PageSize, in.SortBy, in.SortOrder, orderSortFields, "created_at")

	filter := ports.ListOrdersFilter{OwnerID: ownerID, Query: q}
	if in.Status != "" {
		filter.Status = domain.OrderStatus(in.Status)
	}

	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := listing.NewPage(orders, total, q)
	return &page, nil
}
