package service

import (
	"context"
	"testing"
	"time"

	"go-socialstore-ws/internal/model"
)

func TestOverviewPendingCounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedStock(t, "Arroz", model.Batch{Quantity: 10, Expiry: nil})
	user := env.seedUser(t, "counts@example.com")

	for i := 0; i < 2; i++ {
		if _, err := env.orderSvc.Submit(ctx, &OrderRequest{
			Items:           []OrderItemInput{{ProductName: "Arroz", Quantity: 1}},
			FulfillmentDate: time.Now(),
		}, "user-1"); err != nil {
			t.Fatalf("submit order: %v", err)
		}
	}
	if _, err := env.candidSvc.Submit(ctx, &CandidatureRequest{
		ApplicantName: "Joana",
		UserID:        user.ID,
	}, "vol-1"); err != nil {
		t.Fatalf("submit candidature: %v", err)
	}

	counts, err := env.overview.GetPendingCounts()
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Orders != 2 || counts.Candidatures != 1 || counts.Deliveries != 0 {
		t.Fatalf("counts = %+v, want 2/1/0", counts)
	}
}
