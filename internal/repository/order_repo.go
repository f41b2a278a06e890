package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-socialstore-ws/internal/apperr"
	"go-socialstore-ws/internal/model"
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	FindByID(tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	FindByIdempotencyKey(key string) (*model.Order, error)
	FindByStatus(status model.Status) ([]model.Order, error)
	FindAll() ([]model.Order, error)
	CountByStatus(status model.Status) (int64, error)
	Save(tx *gorm.DB, order *model.Order) error
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	return tx.Create(order).Error
}

func (r *orderRepo) FindByID(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := tx.First(&order, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

func (r *orderRepo) FindByIdempotencyKey(key string) (*model.Order, error) {
	var order model.Order
	err := r.db.First(&order, "idempotency_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindByStatus(status model.Status) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Where("status = ?", status).Order("submitted_at ASC").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindAll() ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Order("submitted_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) CountByStatus(status model.Status) (int64, error) {
	var count int64
	err := r.db.Model(&model.Order{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// Save applies the lifecycle transition with a version guard so concurrent
// approve/reject calls cannot both land.
func (r *orderRepo) Save(tx *gorm.DB, order *model.Order) error {
	current := order.Version
	res := tx.Model(&model.Order{}).
		Where("id = ? AND version = ?", order.ID, current).
		Select("Status", "EvaluatorID", "EvaluatedAt", "Reason", "Version", "UpdatedBy").
		Updates(model.Order{
			Status:      order.Status,
			EvaluatorID: order.EvaluatorID,
			EvaluatedAt: order.EvaluatedAt,
			Reason:      order.Reason,
			Version:     current + 1,
			BaseModel: model.BaseModel{
				UpdatedBy: order.UpdatedBy,
			},
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrConflict
	}
	order.Version = current + 1
	return nil
}
