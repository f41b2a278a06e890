package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-socialstore-ws/internal/apperr"
	"go-socialstore-ws/internal/model"
)

type CandidatureRepository interface {
	Create(tx *gorm.DB, candidature *model.Candidature) error
	FindByID(tx *gorm.DB, id uuid.UUID) (*model.Candidature, error)
	FindByStatus(status model.Status) ([]model.Candidature, error)
	FindAll() ([]model.Candidature, error)
	CountByStatus(status model.Status) (int64, error)
	Save(tx *gorm.DB, candidature *model.Candidature) error
}

type candidatureRepo struct {
	db *gorm.DB
}

func NewCandidatureRepo(db *gorm.DB) CandidatureRepository {
	return &candidatureRepo{db}
}

func (r *candidatureRepo) Create(tx *gorm.DB, candidature *model.Candidature) error {
	return tx.Create(candidature).Error
}

func (r *candidatureRepo) FindByID(tx *gorm.DB, id uuid.UUID) (*model.Candidature, error) {
	var candidature model.Candidature
	if err := tx.First(&candidature, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &candidature, nil
}

func (r *candidatureRepo) FindByStatus(status model.Status) ([]model.Candidature, error) {
	var candidatures []model.Candidature
	err := r.db.Where("status = ?", status).Order("created_at ASC").Find(&candidatures).Error
	return candidatures, err
}

func (r *candidatureRepo) FindAll() ([]model.Candidature, error) {
	var candidatures []model.Candidature
	err := r.db.Order("created_at DESC").Find(&candidatures).Error
	return candidatures, err
}

func (r *candidatureRepo) CountByStatus(status model.Status) (int64, error) {
	var count int64
	err := r.db.Model(&model.Candidature{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *candidatureRepo) Save(tx *gorm.DB, candidature *model.Candidature) error {
	current := candidature.Version
	res := tx.Model(&model.Candidature{}).
		Where("id = ? AND version = ?", candidature.ID, current).
		Select("Status", "EvaluatorID", "EvaluatedAt", "Reason", "Version", "UpdatedBy").
		Updates(model.Candidature{
			Status:      candidature.Status,
			EvaluatorID: candidature.EvaluatorID,
			EvaluatedAt: candidature.EvaluatedAt,
			Reason:      candidature.Reason,
			Version:     current + 1,
			BaseModel: model.BaseModel{
				UpdatedBy: candidature.UpdatedBy,
			},
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrConflict
	}
	candidature.Version = current + 1
	return nil
}
