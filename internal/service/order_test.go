package service

import (
	"testing"

	"github.com/modushop/backend/internal/model"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{model.OrderStatusPending, model.OrderStatusPaid, true},
		{model.OrderStatusPending, model.OrderStatusCancelled, true},
		{model.OrderStatusPending, model.OrderStatusShipped, false},
		{model.OrderStatusPending, model.OrderStatusCompleted, false},
		{model.OrderStatusPaid, model.OrderStatusShipped, true},
		{model.OrderStatusPaid, model.OrderStatusCancelled, true},
		{model.OrderStatusPaid, model.OrderStatusCompleted, false},
		{model.OrderStatusShipped, model.OrderStatusCompleted, true},
		{model.OrderStatusShipped, model.OrderStatusCancelled, false},
		{model.OrderStatusCompleted, model.OrderStatusPending, false},
		{model.OrderStatusCancelled, model.OrderStatusPaid, false},
		{"bogus", model.OrderStatusPaid, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
