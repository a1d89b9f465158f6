package model

import "time"

// UserProgress 每用户一条的进度记录，首次访问时惰性创建。
// AnsweredQuestions 是唯一事实来源；CompletedSections 仅是每次答题后
// 重新计算出的缓存。
// swagger:model UserProgress
type UserProgress struct {
	UUIDBase
	UserID            string     `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	TotalXP           int        `gorm:"default:0" json:"totalXP"`
	AnsweredQuestions StringList `gorm:"type:json" json:"answeredQuestions"`
	CompletedSections IntList    `gorm:"type:json" json:"completedSections"`
	DailyStreak       int        `gorm:"default:0" json:"dailyStreak"`
	LastBlazeAt       *time.Time `json:"lastBlazeAt"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

// NewUserProgress 全零默认记录
func NewUserProgress(userID string) *UserProgress {
	return &UserProgress{
		UserID:            userID,
		TotalXP:           0,
		AnsweredQuestions: StringList{},
		CompletedSections: IntList{},
		DailyStreak:       0,
		LastBlazeAt:       nil,
	}
}

// Clone 深拷贝，乐观更新失败时用于回退前快照
func (p *UserProgress) Clone() *UserProgress {
	cp := *p
	cp.AnsweredQuestions = append(StringList{}, p.AnsweredQuestions...)
	cp.CompletedSections = append(IntList{}, p.CompletedSections...)
	if p.LastBlazeAt != nil {
		t := *p.LastBlazeAt
		cp.LastBlazeAt = &t
	}
	return &cp
}
