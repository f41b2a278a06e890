package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-socialstore-ws/internal/apperr"
	"go-socialstore-ws/internal/cache"
	"go-socialstore-ws/internal/model"
	"go-socialstore-ws/internal/repository"
	"go-socialstore-ws/internal/ws"
)

// idempotencyConstraint is the unique index guarding urgent order keys.
const idempotencyConstraint = "idx_orders_idempotency_key"

type UrgentRequest struct {
	BeneficiaryName string           `json:"beneficiary_name" validate:"required"`
	Items           []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	IdempotencyKey  string           `json:"idempotency_key" validate:"required,min=8,max=64"`
}

// UrgentResult carries the created (or replayed) records. Duplicate is true
// when the idempotency key had already been used and no stock was touched.
type UrgentResult struct {
	Order     *model.Order    `json:"order"`
	Delivery  *model.Delivery `json:"delivery"`
	Duplicate bool            `json:"duplicate"`
}

type UrgentService interface {
	Fulfill(ctx context.Context, req *UrgentRequest, actorID string) (*UrgentResult, error)
}

type urgentService struct {
	orders     repository.OrderRepository
	deliveries repository.DeliveryRepository
	products   repository.ProductRepository
	movements  repository.MovementRepository
	atomic     *repository.Atomic
	publisher  ws.Publisher
	cache      cache.StockCache
}

func NewUrgentService(orders repository.OrderRepository, deliveries repository.DeliveryRepository, products repository.ProductRepository, movements repository.MovementRepository, atomic *repository.Atomic, publisher ws.Publisher, stockCache cache.StockCache) UrgentService {
	return &urgentService{
		orders:     orders,
		deliveries: deliveries,
		products:   products,
		movements:  movements,
		atomic:     atomic,
		publisher:  publisher,
		cache:      stockCache,
	}
}

// Fulfill hands goods to a walk-in beneficiary in one shot: an already
// ACCEPTED order, an ENTREGUE delivery, and every stock deduction commit
// together or not at all. Replays under the same idempotency key return the
// original records without deducting again.
func (s *urgentService) Fulfill(ctx context.Context, req *UrgentRequest, actorID string) (*UrgentResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if existing, err := s.orders.FindByIdempotencyKey(req.IdempotencyKey); err == nil {
		return s.replay(existing)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	key := req.IdempotencyKey
	order := &model.Order{
		Items:           toOrderItems(req.Items),
		Status:          model.StatusAccepted,
		BeneficiaryName: req.BeneficiaryName,
		SubmittedAt:     now,
		FulfillmentDate: now,
		EvaluatorID:     actorID,
		EvaluatedAt:     &now,
		Urgent:          true,
		IdempotencyKey:  &key,
	}
	order.CreatedBy = actorID
	order.UpdatedBy = actorID

	var delivery *model.Delivery
	err := s.atomic.Run(ctx, func(tx *gorm.DB) error {
		order.ID = uuid.Nil
		if err := s.orders.Create(tx, order); err != nil {
			return err
		}
		for _, item := range order.Items {
			if _, err := deductFromLedger(tx, s.products, s.movements, item.ProductName, item.Quantity, actorID, "urgent", order.ID.String()); err != nil {
				return err
			}
		}
		delivery = &model.Delivery{
			OrderID:     order.ID,
			Status:      model.DeliveryDelivered,
			SurveyDate:  now,
			Delivered:   true,
			EvaluatorID: actorID,
			EvaluatedAt: &now,
		}
		delivery.CreatedBy = actorID
		delivery.UpdatedBy = actorID
		return s.deliveries.Create(tx, delivery)
	})
	if err != nil {
		// A concurrent request with the same key won the insert race; the
		// winner's records are the canonical result.
		if repository.UniqueViolation(err, idempotencyConstraint) {
			if existing, lookupErr := s.orders.FindByIdempotencyKey(req.IdempotencyKey); lookupErr == nil {
				return s.replay(existing)
			}
		}
		return nil, err
	}

	_ = s.cache.Invalidate(ctx, stockCacheKey(now))
	s.publisher.Publish(ws.Event{
		Type:   "order_update",
		Entity: "order",
		Action: "urgent_fulfilled",
		Payload: map[string]interface{}{
			"id":          order.ID,
			"delivery_id": delivery.ID,
		},
	})
	return &UrgentResult{Order: order, Delivery: delivery, Duplicate: false}, nil
}

func (s *urgentService) replay(order *model.Order) (*UrgentResult, error) {
	delivery, err := s.deliveries.FindByOrderID(order.ID)
	if err != nil {
		return nil, err
	}
	return &UrgentResult{Order: order, Delivery: delivery, Duplicate: true}, nil
}
