package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-socialstore-ws/internal/apperr"
	"go-socialstore-ws/internal/model"
)

type DonationRepository interface {
	Create(tx *gorm.DB, donation *model.Donation) error
	FindAll() ([]model.Donation, error)
	FindByID(id uuid.UUID) (*model.Donation, error)
}

type donationRepo struct {
	db *gorm.DB
}

func NewDonationRepo(db *gorm.DB) DonationRepository {
	return &donationRepo{db}
}

func (r *donationRepo) Create(tx *gorm.DB, donation *model.Donation) error {
	return tx.Create(donation).Error
}

func (r *donationRepo) FindAll() ([]model.Donation, error) {
	var donations []model.Donation
	err := r.db.Order("donated_at DESC").Find(&donations).Error
	return donations, err
}

func (r *donationRepo) FindByID(id uuid.UUID) (*model.Donation, error) {
	var donation model.Donation
	if err := r.db.First(&donation, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &donation, nil
}

type CampaignRepository interface {
	Create(tx *gorm.DB, campaign *model.Campaign) error
	FindByID(tx *gorm.DB, id uuid.UUID) (*model.Campaign, error)
	FindAll() ([]model.Campaign, error)
	Save(tx *gorm.DB, campaign *model.Campaign) error
}

type campaignRepo struct {
	db *gorm.DB
}

func NewCampaignRepo(db *gorm.DB) CampaignRepository {
	return &campaignRepo{db}
}

func (r *campaignRepo) Create(tx *gorm.DB, campaign *model.Campaign) error {
	return tx.Create(campaign).Error
}

func (r *campaignRepo) FindByID(tx *gorm.DB, id uuid.UUID) (*model.Campaign, error) {
	var campaign model.Campaign
	if err := tx.First(&campaign, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &campaign, nil
}

func (r *campaignRepo) FindAll() ([]model.Campaign, error) {
	var campaigns []model.Campaign
	err := r.db.Order("created_at DESC").Find(&campaigns).Error
	return campaigns, err
}

func (r *campaignRepo) Save(tx *gorm.DB, campaign *model.Campaign) error {
	current := campaign.Version
	res := tx.Model(&model.Campaign{}).
		Where("id = ? AND version = ?", campaign.ID, current).
		Select("Name", "DonationIDs", "Version", "UpdatedBy").
		Updates(model.Campaign{
			Name:        campaign.Name,
			DonationIDs: campaign.DonationIDs,
			Version:     current + 1,
			BaseModel: model.BaseModel{
				UpdatedBy: campaign.UpdatedBy,
			},
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrConflict
	}
	campaign.Version = current + 1
	return nil
}
