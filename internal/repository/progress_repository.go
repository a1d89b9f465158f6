package repository

import (
	"blazequiz_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) FindByUserID(userID string) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.Where("user_id = ?", userID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// Create 依赖 user_id 唯一索引防止并发下的重复记录
func (r *ProgressRepository) Create(progress *model.UserProgress) error {
	return r.DB.Create(progress).Error
}

// Update 始终写整条快照而非增量，乱序完成的写入不会丢失先前答题的贡献
func (r *ProgressRepository) Update(progress *model.UserProgress) error {
	return r.DB.Save(progress).Error
}

// TopByXP 排行榜
func (r *ProgressRepository) TopByXP(limit int) ([]model.UserProgress, error) {
	var records []model.UserProgress
	err := r.DB.Order("total_xp DESC").Limit(limit).Find(&records).Error
	return records, err
}

func (r *ProgressRepository) FindSectionProgress(userID, sectionID string) (*model.SectionProgress, error) {
	var sp model.SectionProgress
	err := r.DB.Where("user_id = ? AND section_id = ?", userID, sectionID).First(&sp).Error
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

func (r *ProgressRepository) SaveSectionProgress(sp *model.SectionProgress) error {
	return r.DB.Save(sp).Error
}

func (r *ProgressRepository) FindCampaignProgress(userID, campaignID string) (*model.CampaignProgress, error) {
	var cp model.CampaignProgress
	err := r.DB.Where("user_id = ? AND campaign_id = ?", userID, campaignID).First(&cp).Error
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

func (r *ProgressRepository) SaveCampaignProgress(cp *model.CampaignProgress) error {
	return r.DB.Save(cp).Error
}
