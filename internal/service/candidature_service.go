package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-socialstore-ws/internal/apperr"
	"go-socialstore-ws/internal/model"
	"go-socialstore-ws/internal/repository"
	"go-socialstore-ws/internal/ws"
)

type CandidatureRequest struct {
	ApplicantName  string    `json:"applicant_name" validate:"required"`
	ApplicantPhone string    `json:"applicant_phone"`
	Household      int       `json:"household" validate:"gte=0"`
	Motivation     string    `json:"motivation"`
	UserID         uuid.UUID `json:"user_id" validate:"uuid_required"`
}

type CandidatureService interface {
	Submit(ctx context.Context, req *CandidatureRequest, actorID string) (*model.Candidature, error)
	Approve(ctx context.Context, candidatureID uuid.UUID, evaluatorID string) (*model.Candidature, error)
	Reject(ctx context.Context, candidatureID uuid.UUID, reason, evaluatorID string) (*model.Candidature, error)
	ListByStatus(status model.Status) ([]model.Candidature, error)
	ListAll() ([]model.Candidature, error)
}

type candidatureService struct {
	candidatures repository.CandidatureRepository
	users        repository.UserRepository
	atomic       *repository.Atomic
	publisher    ws.Publisher
}

func NewCandidatureService(candidatures repository.CandidatureRepository, users repository.UserRepository, atomic *repository.Atomic, publisher ws.Publisher) CandidatureService {
	return &candidatureService{
		candidatures: candidatures,
		users:        users,
		atomic:       atomic,
		publisher:    publisher,
	}
}

func (s *candidatureService) Submit(ctx context.Context, req *CandidatureRequest, actorID string) (*model.Candidature, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	candidature := &model.Candidature{
		ApplicantName:  req.ApplicantName,
		ApplicantPhone: req.ApplicantPhone,
		Household:      req.Household,
		Motivation:     req.Motivation,
		Status:         model.StatusPending,
		UserID:         req.UserID,
	}
	candidature.CreatedBy = actorID
	candidature.UpdatedBy = actorID

	err := s.atomic.Run(ctx, func(tx *gorm.DB) error {
		if _, err := s.users.FindByIDTx(tx, req.UserID); err != nil {
			return err
		}
		return s.candidatures.Create(tx, candidature)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ws.Event{
		Type:   "candidature_update",
		Entity: "candidature",
		Action: "candidature_submitted",
		Payload: map[string]interface{}{
			"id":     candidature.ID,
			"status": candidature.Status,
		},
	})
	return candidature, nil
}

// Approve accepts the application and promotes the linked user to
// beneficiary in the same transaction.
func (s *candidatureService) Approve(ctx context.Context, candidatureID uuid.UUID, evaluatorID string) (*model.Candidature, error) {
	var candidature *model.Candidature
	err := s.atomic.Run(ctx, func(tx *gorm.DB) error {
		var err error
		candidature, err = s.candidatures.FindByID(tx, candidatureID)
		if err != nil {
			return err
		}
		if candidature.Status != model.StatusPending {
			return &apperr.AlreadyFinalizedError{Entity: "candidature", ID: candidature.ID.String(), Status: string(candidature.Status)}
		}

		now := time.Now()
		candidature.Status = model.StatusAccepted
		candidature.EvaluatorID = evaluatorID
		candidature.EvaluatedAt = &now
		candidature.UpdatedBy = evaluatorID
		if err := s.candidatures.Save(tx, candidature); err != nil {
			return err
		}
		return s.users.SetBeneficiary(tx, candidature.UserID, true, evaluatorID)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ws.Event{
		Type:   "candidature_update",
		Entity: "candidature",
		Action: "candidature_approved",
		Payload: map[string]interface{}{
			"id":      candidature.ID,
			"status":  candidature.Status,
			"user_id": candidature.UserID,
		},
	})
	return candidature, nil
}

func (s *candidatureService) Reject(ctx context.Context, candidatureID uuid.UUID, reason, evaluatorID string) (*model.Candidature, error) {
	if reason == "" {
		return nil, apperr.Validation("reason", "must not be blank")
	}

	var candidature *model.Candidature
	err := s.atomic.Run(ctx, func(tx *gorm.DB) error {
		var err error
		candidature, err = s.candidatures.FindByID(tx, candidatureID)
		if err != nil {
			return err
		}
		if candidature.Status != model.StatusPending {
			return &apperr.AlreadyFinalizedError{Entity: "candidature", ID: candidature.ID.String(), Status: string(candidature.Status)}
		}

		now := time.Now()
		candidature.Status = model.StatusRejected
		candidature.EvaluatorID = evaluatorID
		candidature.EvaluatedAt = &now
		candidature.Reason = reason
		candidature.UpdatedBy = evaluatorID
		return s.candidatures.Save(tx, candidature)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ws.Event{
		Type:   "candidature_update",
		Entity: "candidature",
		Action: "candidature_rejected",
		Payload: map[string]interface{}{
			"id":     candidature.ID,
			"status": candidature.Status,
		},
	})
	return candidature, nil
}

func (s *candidatureService) ListByStatus(status model.Status) ([]model.Candidature, error) {
	return s.candidatures.FindByStatus(status)
}

func (s *candidatureService) ListAll() ([]model.Candidature, error) {
	return s.candidatures.FindAll()
}
