package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-socialstore-ws/internal/apperr"
	"go-socialstore-ws/internal/model"
)

type DeliveryRepository interface {
	Create(tx *gorm.DB, delivery *model.Delivery) error
	FindByID(tx *gorm.DB, id uuid.UUID) (*model.Delivery, error)
	FindByOrderID(orderID uuid.UUID) (*model.Delivery, error)
	FindByStatus(status model.DeliveryStatus) ([]model.Delivery, error)
	FindAll() ([]model.Delivery, error)
	CountByStatus(status model.DeliveryStatus) (int64, error)
	Save(tx *gorm.DB, delivery *model.Delivery) error
}

type deliveryRepo struct {
	db *gorm.DB
}

func NewDeliveryRepo(db *gorm.DB) DeliveryRepository {
	return &deliveryRepo{db}
}

func (r *deliveryRepo) Create(tx *gorm.DB, delivery *model.Delivery) error {
	return tx.Create(delivery).Error
}

func (r *deliveryRepo) FindByID(tx *gorm.DB, id uuid.UUID) (*model.Delivery, error) {
	var delivery model.Delivery
	if err := tx.First(&delivery, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &delivery, nil
}

func (r *deliveryRepo) FindByOrderID(orderID uuid.UUID) (*model.Delivery, error) {
	var delivery model.Delivery
	if err := r.db.First(&delivery, "order_id = ?", orderID).Error; err != nil {
		return nil, notFound(err)
	}
	return &delivery, nil
}

func (r *deliveryRepo) FindByStatus(status model.DeliveryStatus) ([]model.Delivery, error) {
	var deliveries []model.Delivery
	err := r.db.Where("status = ?", status).Order("survey_date ASC").Find(&deliveries).Error
	return deliveries, err
}

func (r *deliveryRepo) FindAll() ([]model.Delivery, error) {
	var deliveries []model.Delivery
	err := r.db.Order("created_at DESC").Find(&deliveries).Error
	return deliveries, err
}

func (r *deliveryRepo) CountByStatus(status model.DeliveryStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.Delivery{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *deliveryRepo) Save(tx *gorm.DB, delivery *model.Delivery) error {
	current := delivery.Version
	res := tx.Model(&model.Delivery{}).
		Where("id = ? AND version = ?", delivery.ID, current).
		Select("Status", "Delivered", "EvaluatorID", "EvaluatedAt", "Reason", "Version", "UpdatedBy").
		Updates(model.Delivery{
			Status:      delivery.Status,
			Delivered:   delivery.Delivered,
			EvaluatorID: delivery.EvaluatorID,
			EvaluatedAt: delivery.EvaluatedAt,
			Reason:      delivery.Reason,
			Version:     current + 1,
			BaseModel: model.BaseModel{
				UpdatedBy: delivery.UpdatedBy,
			},
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrConflict
	}
	delivery.Version = current + 1
	return nil
}
