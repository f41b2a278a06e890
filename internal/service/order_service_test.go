package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-socialstore-ws/internal/apperr"
	"go-socialstore-ws/internal/ledger"
	"go-socialstore-ws/internal/model"
)

func TestOrderApproveDeductsAndCreatesDelivery(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedStock(t, "Arroz",
		model.Batch{Quantity: 5, Expiry: expiry(t, 30)},
		model.Batch{Quantity: 5, Expiry: expiry(t, 5)},
	)

	order, err := env.orderSvc.Submit(ctx, &OrderRequest{
		Items:           []OrderItemInput{{ProductName: "arroz", Quantity: 7}},
		FulfillmentDate: time.Now().AddDate(0, 0, 3),
	}, "user-1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if order.Status != model.StatusPending {
		t.Fatalf("status = %s, want PENDING", order.Status)
	}

	approved, err := env.orderSvc.Approve(ctx, order.ID, "admin-1")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != model.StatusAccepted {
		t.Fatalf("status = %s, want ACCEPTED", approved.Status)
	}

	// Soonest-expiring batch drains first.
	product := env.productByName(t, "Arroz")
	if got := ledger.Total(product.Batches); got != 3 {
		t.Fatalf("remaining stock = %d, want 3", got)
	}
	if len(product.Batches) != 1 {
		t.Fatalf("batches = %d, want 1 (expired-soonest fully consumed)", len(product.Batches))
	}

	delivery, err := env.deliveries.FindByOrderID(order.ID)
	if err != nil {
		t.Fatalf("find delivery: %v", err)
	}
	if delivery.Status != model.DeliveryPending {
		t.Fatalf("delivery status = %s, want PENDENTE", delivery.Status)
	}
	if !delivery.SurveyDate.Equal(order.FulfillmentDate) {
		t.Fatalf("survey date = %v, want fulfillment date %v", delivery.SurveyDate, order.FulfillmentDate)
	}
}

func TestOrderApproveInsufficientStockLeavesEverythingUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedStock(t, "Feijao", model.Batch{Quantity: 2, Expiry: expiry(t, 10)})
	env.seedStock(t, "Arroz", model.Batch{Quantity: 10, Expiry: expiry(t, 10)})

	order, err := env.orderSvc.Submit(ctx, &OrderRequest{
		Items: []OrderItemInput{
			{ProductName: "Arroz", Quantity: 4},
			{ProductName: "Feijao", Quantity: 3},
		},
		FulfillmentDate: time.Now(),
	}, "user-1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, err = env.orderSvc.Approve(ctx, order.ID, "admin-1")
	var insufficient *apperr.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}
	if insufficient.Product != "Feijao" || insufficient.Requested != 3 || insufficient.Available != 2 {
		t.Fatalf("unexpected detail: %+v", insufficient)
	}

	// The first line's deduction must have rolled back with the rest.
	if got := ledger.Total(env.productByName(t, "Arroz").Batches); got != 10 {
		t.Fatalf("arroz stock = %d, want 10 after rollback", got)
	}
	fresh, err := env.orders.FindByID(env.db, order.ID)
	if err != nil {
		t.Fatalf("re-read order: %v", err)
	}
	if fresh.Status != model.StatusPending {
		t.Fatalf("order status = %s, want still PENDING", fresh.Status)
	}
	if _, err := env.deliveries.FindByOrderID(order.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("delivery lookup err = %v, want not found", err)
	}
}

func TestOrderTransitionReplayFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedStock(t, "Leite", model.Batch{Quantity: 10, Expiry: expiry(t, 10)})

	order, err := env.orderSvc.Submit(ctx, &OrderRequest{
		Items:           []OrderItemInput{{ProductName: "Leite", Quantity: 2}},
		FulfillmentDate: time.Now(),
	}, "user-1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := env.orderSvc.Approve(ctx, order.ID, "admin-1"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	var finalized *apperr.AlreadyFinalizedError
	if _, err := env.orderSvc.Approve(ctx, order.ID, "admin-2"); !errors.As(err, &finalized) {
		t.Fatalf("second approve err = %v, want AlreadyFinalizedError", err)
	}
	if _, err := env.orderSvc.Reject(ctx, order.ID, "changed my mind", "admin-2"); !errors.As(err, &finalized) {
		t.Fatalf("reject after approve err = %v, want AlreadyFinalizedError", err)
	}

	// Stock was deducted exactly once.
	if got := ledger.Total(env.productByName(t, "Leite").Batches); got != 8 {
		t.Fatalf("stock = %d, want 8", got)
	}
}

func TestOrderRejectRequiresReason(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order, err := env.orderSvc.Submit(ctx, &OrderRequest{
		Items:           []OrderItemInput{{ProductName: "Arroz", Quantity: 1}},
		FulfillmentDate: time.Now(),
	}, "user-1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	var vErr *apperr.ValidationError
	if _, err := env.orderSvc.Reject(ctx, order.ID, "", "admin-1"); !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	rejected, err := env.orderSvc.Reject(ctx, order.ID, "out of assistance area", "admin-1")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != model.StatusRejected || rejected.Reason == "" {
		t.Fatalf("rejected = %+v, want REJECTED with reason", rejected)
	}
}
