package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-socialstore-ws/internal/apperr"
	"go-socialstore-ws/internal/model"
)

func (e *testEnv) approvedDelivery(t *testing.T, fulfillment time.Time) *model.Delivery {
	t.Helper()
	ctx := context.Background()

	e.seedStock(t, "Cesta Basica", model.Batch{Quantity: 20, Expiry: nil})
	order, err := e.orderSvc.Submit(ctx, &OrderRequest{
		Items:           []OrderItemInput{{ProductName: "Cesta Basica", Quantity: 1}},
		FulfillmentDate: fulfillment,
	}, "user-1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := e.orderSvc.Approve(ctx, order.ID, "admin-1"); err != nil {
		t.Fatalf("approve order: %v", err)
	}
	delivery, err := e.deliveries.FindByOrderID(order.ID)
	if err != nil {
		t.Fatalf("find delivery: %v", err)
	}
	return delivery
}

func TestDeliveryApproveMarksDelivered(t *testing.T) {
	env := newTestEnv(t)
	delivery := env.approvedDelivery(t, time.Now())

	done, err := env.deliverySvc.Approve(context.Background(), delivery.ID, "admin-1")
	if err != nil {
		t.Fatalf("approve delivery: %v", err)
	}
	if done.Status != model.DeliveryDelivered || !done.Delivered {
		t.Fatalf("delivery = %+v, want ENTREGUE and delivered", done)
	}

	var finalized *apperr.AlreadyFinalizedError
	if _, err := env.deliverySvc.Approve(context.Background(), delivery.ID, "admin-2"); !errors.As(err, &finalized) {
		t.Fatalf("replay err = %v, want AlreadyFinalizedError", err)
	}
}

func TestDeliveryRejectBeforeGraceWindowFails(t *testing.T) {
	env := newTestEnv(t)
	// Scheduled for today: the requester still has until tomorrow to show up.
	delivery := env.approvedDelivery(t, time.Now())

	_, err := env.deliverySvc.Reject(context.Background(), delivery.ID, "no show", "admin-1")
	var precondition *apperr.PreconditionError
	if !errors.As(err, &precondition) {
		t.Fatalf("err = %v, want PreconditionError", err)
	}

	fresh, err := env.deliveries.FindByID(env.db, delivery.ID)
	if err != nil {
		t.Fatalf("re-read delivery: %v", err)
	}
	if fresh.Status != model.DeliveryPending {
		t.Fatalf("status = %s, want still PENDENTE", fresh.Status)
	}
}

func TestDeliveryRejectAfterGraceWindowCancels(t *testing.T) {
	env := newTestEnv(t)
	// Scheduled two days ago: the grace window has elapsed.
	delivery := env.approvedDelivery(t, time.Now().AddDate(0, 0, -2))

	cancelled, err := env.deliverySvc.Reject(context.Background(), delivery.ID, "beneficiary never came", "admin-1")
	if err != nil {
		t.Fatalf("reject delivery: %v", err)
	}
	if cancelled.Status != model.DeliveryCancelled {
		t.Fatalf("status = %s, want CANCELADO", cancelled.Status)
	}
	if cancelled.Delivered {
		t.Fatal("cancelled delivery must not be marked delivered")
	}
}

func TestDeliveryRejectReasonIsOptional(t *testing.T) {
	env := newTestEnv(t)
	delivery := env.approvedDelivery(t, time.Now().AddDate(0, 0, -2))

	cancelled, err := env.deliverySvc.Reject(context.Background(), delivery.ID, "", "admin-1")
	if err != nil {
		t.Fatalf("reject without reason: %v", err)
	}
	if cancelled.Status != model.DeliveryCancelled {
		t.Fatalf("status = %s, want CANCELADO", cancelled.Status)
	}
}
