package repository

import (
	"blazequiz_backend/internal/model"

	"gorm.io/gorm"
)

type CampaignRepository struct {
	DB *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{DB: db}
}

func (r *CampaignRepository) Create(campaign *model.Campaign) error {
	return r.DB.Create(campaign).Error
}

func (r *CampaignRepository) Update(campaign *model.Campaign) error {
	return r.DB.Save(campaign).Error
}

func (r *CampaignRepository) Delete(id string) error {
	return r.DB.Delete(&model.Campaign{}, "id = ?", id).Error
}

func (r *CampaignRepository) FindByID(id string) (*model.Campaign, error) {
	var campaign model.Campaign
	err := r.DB.First(&campaign, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// FindActiveOrdered 按展示顺序返回启用的战役
func (r *CampaignRepository) FindActiveOrdered() ([]model.Campaign, error) {
	var campaigns []model.Campaign
	err := r.DB.Where("is_active = ?", true).Order("`order` ASC, created_at ASC").Find(&campaigns).Error
	return campaigns, err
}

func (r *CampaignRepository) FindAllOrdered() ([]model.Campaign, error) {
	var campaigns []model.Campaign
	err := r.DB.Order("`order` ASC, created_at ASC").Find(&campaigns).Error
	return campaigns, err
}
