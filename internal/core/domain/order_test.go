package domain

import "testing"

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusCreated, StatusInProgress, true},
		{StatusCreated, StatusCancelled, true},
		{StatusCreated, StatusCompleted, false}, // no skipping IN_PROGRESS
		{StatusCreated, StatusCreated, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusCreated, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusCompleted, false}, // terminal means fully immutable
		{StatusCancelled, StatusCreated, false},
		{StatusCancelled, StatusCancelled, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	if StatusCreated.Terminal() || StatusInProgress.Terminal() {
		t.Fatalf("non-terminal status reported terminal")
	}
	if !StatusCompleted.Terminal() || !StatusCancelled.Terminal() {
		t.Fatalf("terminal status not reported terminal")
	}
	if OrderStatus("SHIPPED").Terminal() {
		t.Fatalf("unknown status must not be terminal")
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []OrderStatus{StatusCreated, StatusInProgress, StatusCompleted, StatusCancelled} {
		if !ValidStatus(s) {
			t.Errorf("%s should be valid", s)
		}
	}
	if ValidStatus("created") {
		t.Errorf("statuses are case-sensitive")
	}
}
