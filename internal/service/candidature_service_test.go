package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"go-socialstore-ws/internal/apperr"
	"go-socialstore-ws/internal/model"
)

func (e *testEnv) seedUser(t *testing.T, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:    email,
		FullName: "Test User",
		IsActive: true,
	}
	if err := user.SetPassword("secret123"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if err := e.users.Create(user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestCandidatureApproveFlipsBeneficiary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "applicant@example.com")

	candidature, err := env.candidSvc.Submit(ctx, &CandidatureRequest{
		ApplicantName: "Joana Alves",
		Household:     4,
		Motivation:    "lost employment",
		UserID:        user.ID,
	}, "vol-1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if candidature.Status != model.StatusPending {
		t.Fatalf("status = %s, want PENDING", candidature.Status)
	}

	approved, err := env.candidSvc.Approve(ctx, candidature.ID, "admin-1")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != model.StatusAccepted {
		t.Fatalf("status = %s, want ACCEPTED", approved.Status)
	}

	fresh, err := env.users.FindByID(user.ID)
	if err != nil {
		t.Fatalf("re-read user: %v", err)
	}
	if !fresh.Beneficiary {
		t.Fatal("user not promoted to beneficiary")
	}
}

func TestCandidatureRejectKeepsUserUnchanged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "applicant2@example.com")

	candidature, err := env.candidSvc.Submit(ctx, &CandidatureRequest{
		ApplicantName: "Pedro Dias",
		UserID:        user.ID,
	}, "vol-1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	var vErr *apperr.ValidationError
	if _, err := env.candidSvc.Reject(ctx, candidature.ID, "", "admin-1"); !errors.As(err, &vErr) {
		t.Fatalf("blank reason err = %v, want ValidationError", err)
	}

	rejected, err := env.candidSvc.Reject(ctx, candidature.ID, "incomplete documentation", "admin-1")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != model.StatusRejected {
		t.Fatalf("status = %s, want REJECTED", rejected.Status)
	}

	fresh, err := env.users.FindByID(user.ID)
	if err != nil {
		t.Fatalf("re-read user: %v", err)
	}
	if fresh.Beneficiary {
		t.Fatal("rejected candidature must not promote the user")
	}

	var finalized *apperr.AlreadyFinalizedError
	if _, err := env.candidSvc.Approve(ctx, candidature.ID, "admin-1"); !errors.As(err, &finalized) {
		t.Fatalf("approve after reject err = %v, want AlreadyFinalizedError", err)
	}
}

func TestCandidatureSubmitRequiresExistingUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.candidSvc.Submit(context.Background(), &CandidatureRequest{
		ApplicantName: "Ghost",
		UserID:        uuid.MustParse("3f0e8a1c-9a74-4b39-8f6e-2d5c1b7a9e01"),
	}, "vol-1")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}
