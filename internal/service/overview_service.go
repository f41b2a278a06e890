package service

import (
	"time"

	"go-socialstore-ws/internal/model"
	"go-socialstore-ws/internal/repository"
)

// PendingCounts is the volunteer work queue summary.
type PendingCounts struct {
	Orders       int64 `json:"orders"`
	Candidatures int64 `json:"candidatures"`
	Deliveries   int64 `json:"deliveries"`
}

type OverviewService interface {
	GetPendingCounts() (*PendingCounts, error)
	GetStockFlow(days int) ([]repository.DailyFlow, error)
}

type overviewService struct {
	orders       repository.OrderRepository
	candidatures repository.CandidatureRepository
	deliveries   repository.DeliveryRepository
	movements    repository.MovementRepository
}

func NewOverviewService(orders repository.OrderRepository, candidatures repository.CandidatureRepository, deliveries repository.DeliveryRepository, movements repository.MovementRepository) OverviewService {
	return &overviewService{
		orders:       orders,
		candidatures: candidatures,
		deliveries:   deliveries,
		movements:    movements,
	}
}

func (s *overviewService) GetPendingCounts() (*PendingCounts, error) {
	orders, err := s.orders.CountByStatus(model.StatusPending)
	if err != nil {
		return nil, err
	}
	candidatures, err := s.candidatures.CountByStatus(model.StatusPending)
	if err != nil {
		return nil, err
	}
	deliveries, err := s.deliveries.CountByStatus(model.DeliveryPending)
	if err != nil {
		return nil, err
	}
	return &PendingCounts{Orders: orders, Candidatures: candidatures, Deliveries: deliveries}, nil
}

func (s *overviewService) GetStockFlow(days int) ([]repository.DailyFlow, error) {
	if days < 1 {
		days = 7
	}
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.movements.GetDailyFlow(startDate, endDate)
}
