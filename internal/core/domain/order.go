package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusCreated    OrderStatus = "CREATED"
	StatusInProgress OrderStatus = "IN_PROGRESS"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// validTransitions defines the allowed state machine transitions.
// COMPLETED and CANCELLED are terminal: no entry means no way out,
// including re-asserting the same terminal value.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusCreated:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

var ErrOrderNotFound = errors.New("order not found")
var ErrAccessDenied = errors.New("access denied")
var ErrInvalidStatusChange = errors.New("invalid status change")
var ErrAlreadyCancelled = errors.New("order already cancelled")
var ErrCancelCompleted = errors.New("cannot cancel completed order")
var ErrEmptyOrder = errors.New("order must contain at least one item")
var ErrStaleStatus = errors.New("order status changed concurrently")
var ErrInvalidItem = errors.New("invalid order item")

// ValidStatus reports whether s is one of the four known order statuses.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusCreated, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition out of s is permitted.
func (s OrderStatus) Terminal() bool {
	return len(validTransitions[s]) == 0 && ValidStatus(s)
}

// OrderItem is a single line item. UnitPrice is constrained to two decimal
// places at the transport boundary; totals are accumulated in cents.
type OrderItem struct {
	Name        string  `json:"name" bson:"name"`
	Quantity    int     `json:"amount" bson:"amount"`
	Description string  `json:"description" bson:"description"`
	UnitPrice   float64 `json:"price" bson:"price"`
}

// Order is the core aggregate root. OwnerID is set once at creation and never
// reassigned. TotalAmount is derived at creation time and never recomputed.
type Order struct {
	ID          string      `json:"id" bson:"_id,omitempty"`
	OwnerID     string      `json:"user_id" bson:"user_id"`
	Items       []OrderItem `json:"items" bson:"items"`
	Status      OrderStatus `json:"status" bson:"status"`
	TotalAmount float64     `json:"total_amount" bson:"total_amount"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" bson:"updated_at"`
}
