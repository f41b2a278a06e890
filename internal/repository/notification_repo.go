package repository

import (
	"gorm.io/gorm"

	"go-socialstore-ws/internal/model"
)

type NotificationRepository interface {
	Create(notification *model.Notification) error
	FindByUser(userID string, limit int) ([]model.Notification, error)
}

type notificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db}
}

func (r *notificationRepo) Create(notification *model.Notification) error {
	return r.db.Create(notification).Error
}

func (r *notificationRepo) FindByUser(userID string, limit int) ([]model.Notification, error) {
	if limit < 1 {
		limit = 50
	}
	var notifications []model.Notification
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&notifications).Error
	return notifications, err
}
