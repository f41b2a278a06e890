package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-socialstore-ws/internal/apperr"
	"go-socialstore-ws/internal/cache"
	"go-socialstore-ws/internal/model"
	"go-socialstore-ws/internal/repository"
	"go-socialstore-ws/internal/ws"
)

type OrderRequest struct {
	Items           []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	FulfillmentDate time.Time        `json:"fulfillment_date" validate:"required"`
}

type OrderService interface {
	Submit(ctx context.Context, req *OrderRequest, requesterID string) (*model.Order, error)
	Approve(ctx context.Context, orderID uuid.UUID, evaluatorID string) (*model.Order, error)
	Reject(ctx context.Context, orderID uuid.UUID, reason, evaluatorID string) (*model.Order, error)
	ListByStatus(status model.Status) ([]model.Order, error)
	ListAll() ([]model.Order, error)
}

type orderService struct {
	orders     repository.OrderRepository
	deliveries repository.DeliveryRepository
	products   repository.ProductRepository
	movements  repository.MovementRepository
	atomic     *repository.Atomic
	publisher  ws.Publisher
	cache      cache.StockCache
}

func NewOrderService(orders repository.OrderRepository, deliveries repository.DeliveryRepository, products repository.ProductRepository, movements repository.MovementRepository, atomic *repository.Atomic, publisher ws.Publisher, stockCache cache.StockCache) OrderService {
	return &orderService{
		orders:     orders,
		deliveries: deliveries,
		products:   products,
		movements:  movements,
		atomic:     atomic,
		publisher:  publisher,
		cache:      stockCache,
	}
}

func (s *orderService) Submit(ctx context.Context, req *OrderRequest, requesterID string) (*model.Order, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if requesterID == "" {
		return nil, apperr.Validation("requester_id", "must not be blank")
	}

	order := &model.Order{
		Items:           toOrderItems(req.Items),
		Status:          model.StatusPending,
		RequesterID:     requesterID,
		SubmittedAt:     time.Now(),
		FulfillmentDate: req.FulfillmentDate,
	}
	order.CreatedBy = requesterID
	order.UpdatedBy = requesterID

	err := s.atomic.Run(ctx, func(tx *gorm.DB) error {
		return s.orders.Create(tx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ws.Event{
		Type:   "order_update",
		Entity: "order",
		Action: "order_submitted",
		Payload: map[string]interface{}{
			"id":     order.ID,
			"status": order.Status,
		},
	})
	return order, nil
}

// Approve fires the PENDING -> ACCEPTED transition. Deducting every line and
// creating the delivery happen in the same transaction as the status flip:
// if any line lacks stock, the order stays PENDING and nothing is written.
func (s *orderService) Approve(ctx context.Context, orderID uuid.UUID, evaluatorID string) (*model.Order, error) {
	var (
		order    *model.Order
		delivery *model.Delivery
	)
	err := s.atomic.Run(ctx, func(tx *gorm.DB) error {
		var err error
		order, err = s.orders.FindByID(tx, orderID)
		if err != nil {
			return err
		}
		if order.Status != model.StatusPending {
			return &apperr.AlreadyFinalizedError{Entity: "order", ID: order.ID.String(), Status: string(order.Status)}
		}

		for _, item := range order.Items {
			if _, err := deductFromLedger(tx, s.products, s.movements, item.ProductName, item.Quantity, evaluatorID, "order", order.ID.String()); err != nil {
				return err
			}
		}

		now := time.Now()
		order.Status = model.StatusAccepted
		order.EvaluatorID = evaluatorID
		order.EvaluatedAt = &now
		order.UpdatedBy = evaluatorID
		if err := s.orders.Save(tx, order); err != nil {
			return err
		}

		delivery = &model.Delivery{
			OrderID:     order.ID,
			Status:      model.DeliveryPending,
			RequesterID: order.RequesterID,
			SurveyDate:  order.FulfillmentDate,
		}
		delivery.CreatedBy = evaluatorID
		delivery.UpdatedBy = evaluatorID
		return s.deliveries.Create(tx, delivery)
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Invalidate(ctx, stockCacheKey(time.Now()))
	s.publisher.Publish(ws.Event{
		Type:   "order_update",
		Entity: "order",
		Action: "order_approved",
		Payload: map[string]interface{}{
			"id":          order.ID,
			"status":      order.Status,
			"delivery_id": delivery.ID,
		},
	})
	return order, nil
}

func (s *orderService) Reject(ctx context.Context, orderID uuid.UUID, reason, evaluatorID string) (*model.Order, error) {
	if reason == "" {
		return nil, apperr.Validation("reason", "must not be blank")
	}

	var order *model.Order
	err := s.atomic.Run(ctx, func(tx *gorm.DB) error {
		var err error
		order, err = s.orders.FindByID(tx, orderID)
		if err != nil {
			return err
		}
		if order.Status != model.StatusPending {
			return &apperr.AlreadyFinalizedError{Entity: "order", ID: order.ID.String(), Status: string(order.Status)}
		}

		now := time.Now()
		order.Status = model.StatusRejected
		order.EvaluatorID = evaluatorID
		order.EvaluatedAt = &now
		order.Reason = reason
		order.UpdatedBy = evaluatorID
		return s.orders.Save(tx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ws.Event{
		Type:   "order_update",
		Entity: "order",
		Action: "order_rejected",
		Payload: map[string]interface{}{
			"id":     order.ID,
			"status": order.Status,
		},
	})
	return order, nil
}

func (s *orderService) ListByStatus(status model.Status) ([]model.Order, error) {
	return s.orders.FindByStatus(status)
}

func (s *orderService) ListAll() ([]model.Order, error) {
	return s.orders.FindAll()
}

func toOrderItems(items []OrderItemInput) []model.OrderItem {
	out := make([]model.OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, model.OrderItem{ProductName: item.ProductName, Quantity: item.Quantity})
	}
	return out
}
