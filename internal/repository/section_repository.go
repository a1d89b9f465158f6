package repository

import (
	"blazequiz_backend/internal/model"

	"gorm.io/gorm"
)

type SectionRepository struct {
	DB *gorm.DB
}

func NewSectionRepository(db *gorm.DB) *SectionRepository {
	return &SectionRepository{DB: db}
}

func (r *SectionRepository) Create(section *model.Section) error {
	return r.DB.Create(section).Error
}

func (r *SectionRepository) Update(section *model.Section) error {
	return r.DB.Save(section).Error
}

func (r *SectionRepository) Delete(id string) error {
	return r.DB.Delete(&model.Section{}, "id = ?", id).Error
}

func (r *SectionRepository) FindByID(id string) (*model.Section, error) {
	var section model.Section
	err := r.DB.First(&section, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

// FindActiveByCampaign 按展示顺序返回战役下启用的小节
func (r *SectionRepository) FindActiveByCampaign(campaignID string) ([]model.Section, error) {
	var sections []model.Section
	err := r.DB.Where("campaign_id = ? AND is_active = ?", campaignID, true).
		Order("`order` ASC, number ASC").Find(&sections).Error
	return sections, err
}

func (r *SectionRepository) FindActiveOrdered() ([]model.Section, error) {
	var sections []model.Section
	err := r.DB.Where("is_active = ?", true).Order("`order` ASC, number ASC").Find(&sections).Error
	return sections, err
}

// SetManualUnlock 内容作者对 MANUAL 规则小节的显式开关
func (r *SectionRepository) SetManualUnlock(id string, unlocked bool) error {
	return r.DB.Model(&model.Section{}).Where("id = ?", id).Update("manual_unlocked", unlocked).Error
}
