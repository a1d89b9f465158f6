package database

import (
	"blazequiz_backend/internal/config"
	"blazequiz_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Campaign{},
		&model.Section{},
		&model.Question{},
		&model.Answer{},
		&model.UserProgress{},
		&model.SectionProgress{},
		&model.CampaignProgress{},
		&model.UserProfile{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedContent(db)

	return db, nil
}

type seedQuestion struct {
	Text   string
	Answer string
	XP     int
}

type seedSection struct {
	Number    int
	Title     string
	Text      string
	Questions []seedQuestion
}

// seedContent 内容表为空时插入演示战役，方便本地起服后直接能玩
func seedContent(db *gorm.DB) {
	var count int64
	db.Model(&model.Campaign{}).Count(&count)
	if count > 0 {
		return
	}

	campaign := &model.Campaign{
		Slug:        "capitals",
		Title:       "World Capitals",
		Description: "Warm-up campaign: capital cities and easy arithmetic.",
		Order:       0,
		IsActive:    true,
	}
	if err := db.Create(campaign).Error; err != nil {
		log.Printf("seed campaign failed: %v", err)
		return
	}

	sections := []seedSection{
		{
			Number: 1,
			Title:  "Europe",
			Text:   "Every journey starts somewhere. Capitals of Europe first.",
			Questions: []seedQuestion{
				{"What is the capital of France?", "Paris", 10},
				{"What is 2 + 2?", "4", 15},
			},
		},
		{
			Number: 2,
			Title:  "Asia",
			Text:   "Unlocked once Europe is done.",
			Questions: []seedQuestion{
				{"What is the capital of Japan?", "Tokyo", 10},
			},
		},
	}

	for i, s := range sections {
		section := &model.Section{
			CampaignID:      campaign.ID,
			Number:          s.Number,
			Title:           s.Title,
			EducationalText: s.Text,
			Order:           i,
			IsActive:        true,
			UnlockRule:      model.UnlockAllPrevCorrect,
			UnlockThreshold: 100,
		}
		if err := db.Create(section).Error; err != nil {
			log.Printf("seed section failed: %v", err)
			continue
		}
		for j, q := range s.Questions {
			question := &model.Question{
				SectionID:  section.ID,
				Section:    section.Number,
				Text:       q.Text,
				XPValue:    q.XP,
				Difficulty: model.Easy,
				Order:      j,
				IsActive:   true,
			}
			if err := db.Create(question).Error; err != nil {
				log.Printf("seed question failed: %v", err)
				continue
			}
			db.Create(&model.Answer{
				QuestionID: question.ID,
				Content:    q.Answer,
				IsCorrect:  true,
				IsActive:   true,
			})
		}
	}
}
