package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/marketbay/order-system/internal/core/domain"
	"github.com/marketbay/order-system/internal/core/ports"
	"github.com/marketbay/order-system/internal/infrastructure/db/memory"
)

func newOrderService() (*OrderService, *memory.OrderRepository) {
	repo := memory.NewOrderRepository()
	return NewOrderService(repo, zerolog.Nop()), repo
}

func twoItems() []ports.OrderItemInput {
	return []ports.OrderItemInput{
		{Name: "widget", Quantity: 2, Description: "a widget", UnitPrice: 9.99},
		{Name: "gadget", Quantity: 1, Description: "a gadget", UnitPrice: 5.00},
	}
}

func TestOrderService_Create(t *testing.T) {
	svc, _ := newOrderService()
	ctx := context.Background()

	order, err := svc.Create(ctx, "user-1", twoItems())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if order.Status != domain.StatusCreated {
		t.Fatalf("status = %s, want CREATED", order.Status)
	}
	if order.TotalAmount != 24.98 {
		t.Fatalf("total = %v, want 24.98", order.TotalAmount)
	}
	if order.OwnerID != "user-1" {
		t.Fatalf("owner = %q", order.OwnerID)
	}
}

func TestOrderService_Create_Validation(t *testing.T) {
	svc, _ := newOrderService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "user-1", nil); !errors.Is(err, domain.ErrEmptyOrder) {
		t.Fatalf("empty items: expected ErrEmptyOrder, got %v", err)
	}

	bad := []ports.OrderItemInput{{Name: "x", Quantity: 0, Description: "d", UnitPrice: 1}}
	if _, err := svc.Create(ctx, "user-1", bad); !errors.Is(err, domain.ErrInvalidItem) {
		t.Fatalf("zero quantity: expected ErrInvalidItem, got %v", err)
	}

	bad = []ports.OrderItemInput{{Name: "x", Quantity: 1, Description: "d", UnitPrice: -2}}
	if _, err := svc.Create(ctx, "user-1", bad); !errors.Is(err, domain.ErrInvalidItem) {
		t.Fatalf("negative price: expected ErrInvalidItem, got %v", err)
	}

	bad = []ports.OrderItemInput{{Name: "x", Quantity: 1, Description: "d", UnitPrice: 1.999}}
	if _, err := svc.Create(ctx, "user-1", bad); !errors.Is(err, domain.ErrInvalidItem) {
		t.Fatalf("three decimals: expected ErrInvalidItem, got %v", err)
	}
}

func TestOrderService_Get_Ownership(t *testing.T) {
	svc, _ := newOrderService()
	ctx := context.Background()

	order, _ := svc.Create(ctx, "owner", twoItems())

	// existence first: a truly missing id is NotFound for anyone
	if _, err := svc.Get(ctx, "missing", "stranger"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	// access denied only once existence is confirmed
	if _, err := svc.Get(ctx, order.ID, "stranger"); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if _, err := svc.Get(ctx, order.ID, "owner"); err != nil {
		t.Fatalf("owner get: %v", err)
	}
}

func TestOrderService_UpdateStatus_Machine(t *testing.T) {
	svc, _ := newOrderService()
	ctx := context.Background()

	order, _ := svc.Create(ctx, "owner", twoItems())

	// skipping IN_PROGRESS is not allowed
	if _, err := svc.UpdateStatus(ctx, order.ID, "owner", domain.StatusCompleted); !errors.Is(err, domain.ErrInvalidStatusChange) {
		t.Fatalf("CREATED->COMPLETED: expected ErrInvalidStatusChange, got %v", err)
	}

	updated, err := svc.UpdateStatus(ctx, order.ID, "owner", domain.StatusInProgress)
	if err != nil {
		t.Fatalf("CREATED->IN_PROGRESS: %v", err)
	}
	if updated.Status != domain.StatusInProgress {
		t.Fatalf("status = %s", updated.Status)
	}
	if updated.TotalAmount != order.TotalAmount {
		t.Fatalf("status update must not alter total_amount: %v != %v", updated.TotalAmount, order.TotalAmount)
	}

	if _, err := svc.UpdateStatus(ctx, order.ID, "owner", domain.StatusCompleted); err != nil {
		t.Fatalf("IN_PROGRESS->COMPLETED: %v", err)
	}

	// terminal means fully immutable, including re-asserting the same value
	if _, err := svc.UpdateStatus(ctx, order.ID, "owner", domain.StatusCompleted); !errors.Is(err, domain.ErrInvalidStatusChange) {
		t.Fatalf("COMPLETED->COMPLETED: expected ErrInvalidStatusChange, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, order.ID, "owner", domain.StatusCancelled); !errors.Is(err, domain.ErrInvalidStatusChange) {
		t.Fatalf("COMPLETED->CANCELLED: expected ErrInvalidStatusChange, got %v", err)
	}

	if _, err := svc.UpdateStatus(ctx, order.ID, "owner", "SHIPPED"); !errors.Is(err, domain.ErrInvalidStatusChange) {
		t.Fatalf("unknown status: expected ErrInvalidStatusChange, got %v", err)
	}
}

func TestOrderService_UpdateStatus_Ownership(t *testing.T) {
	svc, _ := newOrderService()
	ctx := context.Background()

	order, _ := svc.Create(ctx, "owner", twoItems())
	if _, err := svc.UpdateStatus(ctx, order.ID, "stranger", domain.StatusInProgress); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestOrderService_Cancel(t *testing.T) {
	svc, _ := newOrderService()
	ctx := context.Background()

	order, _ := svc.Create(ctx, "owner", twoItems())

	cancelled, err := svc.Cancel(ctx, order.ID, "owner")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != domain.StatusCancelled {
		t.Fatalf("status = %s", cancelled.Status)
	}

	if _, err := svc.Cancel(ctx, order.ID, "owner"); !errors.Is(err, domain.ErrAlreadyCancelled) {
		t.Fatalf("second cancel: expected ErrAlreadyCancelled, got %v", err)
	}

	done, _ := svc.Create(ctx, "owner", twoItems())
	_, _ = svc.UpdateStatus(ctx, done.ID, "owner", domain.StatusInProgress)
	_, _ = svc.UpdateStatus(ctx, done.ID, "owner", domain.StatusCompleted)
	if _, err := svc.Cancel(ctx, done.ID, "owner"); !errors.Is(err, domain.ErrCancelCompleted) {
		t.Fatalf("cancel completed: expected ErrCancelCompleted, got %v", err)
	}
}

// raceRepo injects a rival cancel between the service's read and its CAS
// write, simulating a concurrent writer winning the race.
type raceRepo struct {
	*memory.OrderRepository
	fired bool
}

func (r *raceRepo) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, at time.Time) (*domain.Order, error) {
	if !r.fired {
		r.fired = true
		if _, err := r.OrderRepository.UpdateStatus(ctx, id, from, domain.StatusCancelled, at); err != nil {
			return nil, err
		}
	}
	return r.OrderRepository.UpdateStatus(ctx, id, from, to, at)
}

// The losing writer must observe the winner's terminal state and fail the
// machine check rather than overwrite it.
func TestOrderService_UpdateStatus_LosesRaceToTerminal(t *testing.T) {
	base := memory.NewOrderRepository()
	repo := &raceRepo{OrderRepository: base}
	svc := NewOrderService(repo, zerolog.Nop())
	ctx := context.Background()

	order, err := svc.Create(ctx, "owner", twoItems())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.UpdateStatus(ctx, order.ID, "owner", domain.StatusInProgress)
	if !errors.Is(err, domain.ErrInvalidStatusChange) {
		t.Fatalf("expected ErrInvalidStatusChange after losing race, got %v", err)
	}

	current, _ := svc.Get(ctx, order.ID, "owner")
	if current.Status != domain.StatusCancelled {
		t.Fatalf("rival write lost: status = %s", current.Status)
	}
}

func TestOrderService_List(t *testing.T) {
	svc, _ := newOrderService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, "owner", twoItems()); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	other, _ := svc.Create(ctx, "other", twoItems())
	_, _ = svc.Cancel(ctx, other.ID, "other")

	page, err := svc.List(ctx, "owner", ports.ListOrdersInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("listing leaked across owners: total = %d", page.Total)
	}
	for _, o := range page.Items {
		if o.OwnerID != "owner" {
			t.Fatalf("foreign order in listing: %+v", o)
		}
	}

	page, err = svc.List(ctx, "other", ports.ListOrdersInput{Status: string(domain.StatusCancelled)})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if page.Total != 1 || page.Items[0].Status != domain.StatusCancelled {
		t.Fatalf("status filter wrong: %+v", page)
	}

	page, err = svc.List(ctx, "owner", ports.ListOrdersInput{PageSize: 2, Page: 2})
	if err != nil {
		t.Fatalf("paged list: %v", err)
	}
	if page.Pages != 2 || len(page.Items) != 1 {
		t.Fatalf("pagination metadata wrong: pages=%d items=%d", page.Pages, len(page.Items))
	}
}
