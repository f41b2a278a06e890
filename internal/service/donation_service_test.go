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

func TestDonationRegisterMergesIntoExistingProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	day := time.Date(2027, 3, 15, 9, 0, 0, 0, time.UTC)
	env.seedStock(t, "Arroz Branco", model.Batch{Quantity: 5, Expiry: &day})

	// Same product under a differently-cased, padded name and the same expiry
	// day merges into the existing batch instead of creating a duplicate.
	sameDay := day.Add(3 * time.Hour)
	_, err := env.donations.Register(ctx, &DonationRequest{
		DonorName: "Maria",
		Lines: []DonationLineInput{{
			ProductName: "  arroz  branco ",
			Batches:     []BatchInput{{Quantity: 3, Expiry: &sameDay}},
		}},
	}, "vol-1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	product := env.productByName(t, "Arroz Branco")
	if len(product.Batches) != 1 {
		t.Fatalf("batches = %d, want 1 merged batch", len(product.Batches))
	}
	if product.Batches[0].Quantity != 8 {
		t.Fatalf("merged quantity = %d, want 8", product.Batches[0].Quantity)
	}
}

func TestDonationRegisterCreatesProductAndConsolidatesLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	donation, err := env.donations.Register(ctx, &DonationRequest{
		Anonymous: true,
		Lines: []DonationLineInput{
			{ProductName: "Leite", Category: "laticinios", Batches: []BatchInput{{Quantity: 6, Expiry: expiry(t, 20)}}},
			{ProductName: "leite", Batches: []BatchInput{{Quantity: 4, Expiry: expiry(t, 40)}}},
		},
	}, "vol-1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if donation.DonorName != "" {
		t.Fatalf("anonymous donation kept donor name %q", donation.DonorName)
	}

	product := env.productByName(t, "Leite")
	if got := ledger.Total(product.Batches); got != 10 {
		t.Fatalf("total = %d, want 10", got)
	}
	if product.Category != "laticinios" {
		t.Fatalf("category = %q, want laticinios", product.Category)
	}

	movements, err := env.movements.FindByProduct(product.ID, 10)
	if err != nil {
		t.Fatalf("movements: %v", err)
	}
	if len(movements) != 1 || movements[0].Type != model.MovementIn || movements[0].Quantity != 10 {
		t.Fatalf("movements = %+v, want one IN of 10", movements)
	}
}

func TestDonationRequiresDonorUnlessAnonymous(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.donations.Register(context.Background(), &DonationRequest{
		Lines: []DonationLineInput{{ProductName: "Arroz", Batches: []BatchInput{{Quantity: 1}}}},
	}, "vol-1")
	var vErr *apperr.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestDonationAttachesToCampaignOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	campaign, err := env.donations.CreateCampaign(ctx, "Natal 2026", "admin-1")
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	campaignID := campaign.ID.String()

	donation, err := env.donations.Register(ctx, &DonationRequest{
		DonorName:  "Joao",
		CampaignID: &campaignID,
		Lines:      []DonationLineInput{{ProductName: "Acucar", Batches: []BatchInput{{Quantity: 2}}}},
	}, "vol-1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	campaigns, err := env.donations.ListCampaigns()
	if err != nil {
		t.Fatalf("list campaigns: %v", err)
	}
	if len(campaigns) != 1 || len(campaigns[0].DonationIDs) != 1 {
		t.Fatalf("campaigns = %+v, want one with one donation", campaigns)
	}
	if campaigns[0].DonationIDs[0] != donation.ID.String() {
		t.Fatalf("attached id = %s, want %s", campaigns[0].DonationIDs[0], donation.ID)
	}
}
