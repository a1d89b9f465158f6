package repository

import (
	"blazequiz_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) Update(question *model.Question) error {
	return r.DB.Save(question).Error
}

func (r *QuestionRepository) Delete(id string) error {
	return r.DB.Delete(&model.Question{}, "id = ?", id).Error
}

// FindByID 连同答案一并加载，按答案展示顺序排序
func (r *QuestionRepository) FindByID(id string) (*model.Question, error) {
	var question model.Question
	err := r.DB.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true).Order("`order` ASC")
	}).First(&question, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// FindActive 返回所有启用题目（含答案），旧版扁平列表接口使用
func (r *QuestionRepository) FindActive() ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true).Order("`order` ASC")
	}).Where("is_active = ?", true).Order("`order` ASC, created_at ASC").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindActiveBySectionID(sectionID string) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true).Order("`order` ASC")
	}).Where("section_id = ? AND is_active = ?", sectionID, true).
		Order("`order` ASC, created_at ASC").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) CreateAnswer(answer *model.Answer) error {
	return r.DB.Create(answer).Error
}

func (r *QuestionRepository) UpdateAnswer(answer *model.Answer) error {
	return r.DB.Save(answer).Error
}

func (r *QuestionRepository) DeleteAnswer(id string) error {
	return r.DB.Delete(&model.Answer{}, "id = ?", id).Error
}
