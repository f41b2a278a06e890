package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-socialstore-ws/internal/model"
)

type MovementRepository interface {
	Create(tx *gorm.DB, movement *model.StockMovement) error
	FindRecent(limit int) ([]model.StockMovement, error)
	FindByProduct(productID uuid.UUID, limit int) ([]model.StockMovement, error)
	GetDailyFlow(startDate, endDate time.Time) ([]DailyFlow, error)
}

// DailyFlow aggregates inbound and outbound quantities per day for charts.
type DailyFlow struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db}
}

func (r *movementRepo) Create(tx *gorm.DB, movement *model.StockMovement) error {
	return tx.Create(movement).Error
}

func (r *movementRepo) FindRecent(limit int) ([]model.StockMovement, error) {
	if limit < 1 {
		limit = 100
	}
	var movements []model.StockMovement
	err := r.db.Order("created_at DESC").Limit(limit).Find(&movements).Error
	return movements, err
}

func (r *movementRepo) FindByProduct(productID uuid.UUID, limit int) ([]model.StockMovement, error) {
	if limit < 1 {
		limit = 100
	}
	var movements []model.StockMovement
	err := r.db.Where("product_id = ?", productID).Order("created_at DESC").Limit(limit).Find(&movements).Error
	return movements, err
}

func (r *movementRepo) GetDailyFlow(startDate, endDate time.Time) ([]DailyFlow, error) {
	var results []DailyFlow

	rows, err := r.db.Model(&model.StockMovement{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = 'OUT' THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var flow DailyFlow
		if err := rows.Scan(&flow.Date, &flow.Inbound, &flow.Outbound); err != nil {
			return nil, err
		}
		results = append(results, flow)
	}
	return results, nil
}
