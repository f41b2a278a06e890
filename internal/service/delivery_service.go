package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-socialstore-ws/internal/apperr"
	"go-socialstore-ws/internal/model"
	"go-socialstore-ws/internal/repository"
	"go-socialstore-ws/internal/ws"
)

// rejectGrace is how long after the scheduled survey date a delivery must
// wait before it may be cancelled. Requesters get a full day to show up.
const rejectGrace = 24 * time.Hour

type DeliveryService interface {
	Approve(ctx context.Context, deliveryID uuid.UUID, evaluatorID string) (*model.Delivery, error)
	Reject(ctx context.Context, deliveryID uuid.UUID, reason, evaluatorID string) (*model.Delivery, error)
	ListByStatus(status model.DeliveryStatus) ([]model.Delivery, error)
	ListAll() ([]model.Delivery, error)
}

type deliveryService struct {
	deliveries    repository.DeliveryRepository
	notifications repository.NotificationRepository
	atomic        *repository.Atomic
	publisher     ws.Publisher
	now           func() time.Time
}

func NewDeliveryService(deliveries repository.DeliveryRepository, notifications repository.NotificationRepository, atomic *repository.Atomic, publisher ws.Publisher) DeliveryService {
	return &deliveryService{
		deliveries:    deliveries,
		notifications: notifications,
		atomic:        atomic,
		publisher:     publisher,
		now:           time.Now,
	}
}

func (s *deliveryService) Approve(ctx context.Context, deliveryID uuid.UUID, evaluatorID string) (*model.Delivery, error) {
	var delivery *model.Delivery
	err := s.atomic.Run(ctx, func(tx *gorm.DB) error {
		var err error
		delivery, err = s.deliveries.FindByID(tx, deliveryID)
		if err != nil {
			return err
		}
		if !delivery.Status.Fireable() {
			return &apperr.AlreadyFinalizedError{Entity: "delivery", ID: delivery.ID.String(), Status: string(delivery.Status)}
		}

		now := s.now()
		delivery.Status = model.DeliveryDelivered
		delivery.Delivered = true
		delivery.EvaluatorID = evaluatorID
		delivery.EvaluatedAt = &now
		delivery.UpdatedBy = evaluatorID
		return s.deliveries.Save(tx, delivery)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ws.Event{
		Type:   "delivery_update",
		Entity: "delivery",
		Action: "delivery_completed",
		Payload: map[string]interface{}{
			"id":     delivery.ID,
			"status": delivery.Status,
		},
	})
	return delivery, nil
}

// Reject cancels a no-show delivery. It refuses to fire before the grace
// window past the survey date has elapsed, so a volunteer cannot cancel a
// handover the requester is still entitled to collect.
func (s *deliveryService) Reject(ctx context.Context, deliveryID uuid.UUID, reason, evaluatorID string) (*model.Delivery, error) {
	var delivery *model.Delivery
	err := s.atomic.Run(ctx, func(tx *gorm.DB) error {
		var err error
		delivery, err = s.deliveries.FindByID(tx, deliveryID)
		if err != nil {
			return err
		}
		if !delivery.Status.Fireable() {
			return &apperr.AlreadyFinalizedError{Entity: "delivery", ID: delivery.ID.String(), Status: string(delivery.Status)}
		}

		now := s.now()
		earliest := delivery.SurveyDate.Add(rejectGrace)
		if now.Before(earliest) {
			return &apperr.PreconditionError{
				Reason: fmt.Sprintf("delivery %s cannot be cancelled before %s", delivery.ID, earliest.Format(time.RFC3339)),
			}
		}

		delivery.Status = model.DeliveryCancelled
		delivery.EvaluatorID = evaluatorID
		delivery.EvaluatedAt = &now
		delivery.Reason = reason
		delivery.UpdatedBy = evaluatorID
		return s.deliveries.Save(tx, delivery)
	})
	if err != nil {
		return nil, err
	}

	// The notification is best effort; cancellation stands even if it fails.
	if delivery.RequesterID != "" {
		message := fmt.Sprintf("Your delivery scheduled for %s was cancelled", delivery.SurveyDate.Format("2006-01-02"))
		if reason != "" {
			message += ": " + reason
		}
		_ = s.notifications.Create(&model.Notification{
			UserID:  delivery.RequesterID,
			Title:   "Delivery cancelled",
			Message: message,
		})
	}

	s.publisher.Publish(ws.Event{
		Type:   "delivery_update",
		Entity: "delivery",
		Action: "delivery_cancelled",
		Payload: map[string]interface{}{
			"id":     delivery.ID,
			"status": delivery.Status,
		},
	})
	return delivery, nil
}

func (s *deliveryService) ListByStatus(status model.DeliveryStatus) ([]model.Delivery, error) {
	return s.deliveries.FindByStatus(status)
}

func (s *deliveryService) ListAll() ([]model.Delivery, error) {
	return s.deliveries.FindAll()
}
