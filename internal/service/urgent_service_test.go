package service

import (
	"context"
	"errors"
	"testing"

	"go-socialstore-ws/internal/apperr"
	"go-socialstore-ws/internal/ledger"
	"go-socialstore-ws/internal/model"
)

func TestUrgentFulfillCreatesOrderDeliveryAndDeducts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedStock(t, "Agua", model.Batch{Quantity: 12, Expiry: nil})

	result, err := env.urgent.Fulfill(ctx, &UrgentRequest{
		BeneficiaryName: "Ana Souza",
		Items:           []OrderItemInput{{ProductName: "Agua", Quantity: 4}},
		IdempotencyKey:  "walkin-2026-001",
	}, "admin-1")
	if err != nil {
		t.Fatalf("fulfill: %v", err)
	}
	if result.Duplicate {
		t.Fatal("first fulfillment reported as duplicate")
	}
	if result.Order.Status != model.StatusAccepted || !result.Order.Urgent {
		t.Fatalf("order = %+v, want urgent ACCEPTED", result.Order)
	}
	if result.Delivery.Status != model.DeliveryDelivered || !result.Delivery.Delivered {
		t.Fatalf("delivery = %+v, want ENTREGUE and delivered", result.Delivery)
	}
	if got := ledger.Total(env.productByName(t, "Agua").Batches); got != 8 {
		t.Fatalf("stock = %d, want 8", got)
	}
}

func TestUrgentFulfillIsAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedStock(t, "Oleo", model.Batch{Quantity: 5, Expiry: nil})

	_, err := env.urgent.Fulfill(ctx, &UrgentRequest{
		BeneficiaryName: "Ana Souza",
		Items: []OrderItemInput{
			{ProductName: "Oleo", Quantity: 2},
			{ProductName: "Farinha", Quantity: 1}, // never donated
		},
		IdempotencyKey: "walkin-2026-002",
	}, "admin-1")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want not found for missing product", err)
	}

	// The oleo deduction and the order itself rolled back.
	if got := ledger.Total(env.productByName(t, "Oleo").Batches); got != 5 {
		t.Fatalf("stock = %d, want 5 after rollback", got)
	}
	if _, err := env.orders.FindByIdempotencyKey("walkin-2026-002"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("order lookup err = %v, want not found", err)
	}
}

func TestUrgentFulfillReplayDoesNotDoubleDeduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedStock(t, "Sabonete", model.Batch{Quantity: 10, Expiry: nil})

	req := &UrgentRequest{
		BeneficiaryName: "Carlos Lima",
		Items:           []OrderItemInput{{ProductName: "Sabonete", Quantity: 3}},
		IdempotencyKey:  "walkin-2026-003",
	}
	first, err := env.urgent.Fulfill(ctx, req, "admin-1")
	if err != nil {
		t.Fatalf("first fulfill: %v", err)
	}

	second, err := env.urgent.Fulfill(ctx, req, "admin-1")
	if err != nil {
		t.Fatalf("replay fulfill: %v", err)
	}
	if !second.Duplicate {
		t.Fatal("replay not reported as duplicate")
	}
	if second.Order.ID != first.Order.ID || second.Delivery.ID != first.Delivery.ID {
		t.Fatal("replay returned different records")
	}
	if got := ledger.Total(env.productByName(t, "Sabonete").Batches); got != 7 {
		t.Fatalf("stock = %d, want 7 (single deduction)", got)
	}
}

func TestUrgentFulfillValidatesKey(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.urgent.Fulfill(context.Background(), &UrgentRequest{
		BeneficiaryName: "Ana",
		Items:           []OrderItemInput{{ProductName: "Agua", Quantity: 1}},
		IdempotencyKey:  "short",
	}, "admin-1")
	var vErr *apperr.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError for short key", err)
	}
}
