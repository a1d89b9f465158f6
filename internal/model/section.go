package model

type UnlockRule string

const (
	UnlockAllPrevCorrect UnlockRule = "ALL_PREV_CORRECT"
	UnlockPercent        UnlockRule = "PERCENT"
	UnlockManual         UnlockRule = "MANUAL"
)

// Section 战役内的有序小节，持有题目
// swagger:model Section
type Section struct {
	UUIDBase
	CampaignID string `gorm:"size:36;index;not null" json:"campaignId"`
	// Number 旧版扁平小节编号，部分客户端仍按它过滤
	Number          int        `gorm:"uniqueIndex;not null" json:"number"`
	Title           string     `gorm:"size:255" json:"title"`
	EducationalText string     `gorm:"type:text" json:"educationalText"`
	Order           int        `gorm:"default:0;index" json:"order"`
	IsActive        bool       `gorm:"default:true" json:"isActive"`
	UnlockRule      UnlockRule `gorm:"type:enum('ALL_PREV_CORRECT','PERCENT','MANUAL');default:'ALL_PREV_CORRECT'" json:"unlockRule"`
	UnlockThreshold int        `gorm:"default:100" json:"unlockThreshold"`
	// ManualUnlocked 仅对 MANUAL 规则生效，由内容作者显式开关
	ManualUnlocked bool       `gorm:"default:false" json:"manualUnlocked"`
	Questions      []Question `gorm:"foreignKey:SectionID" json:"questions,omitempty"`
}

func (Section) TableName() string {
	return "sections"
}

// SectionProgress 每用户每小节的派生进度行
type SectionProgress struct {
	UUIDBase
	UserID              string     `gorm:"size:36;index:idx_user_section,unique;not null" json:"userId"`
	SectionID           string     `gorm:"size:36;index:idx_user_section,unique;not null" json:"sectionId"`
	AnsweredQuestionIDs StringList `gorm:"type:json" json:"answeredQuestionIds"`
	CorrectCount        int        `gorm:"default:0" json:"correctCount"`
	Completed           bool       `gorm:"default:false" json:"completed"`
}

func (SectionProgress) TableName() string {
	return "section_progress"
}
