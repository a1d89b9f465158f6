package model

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

const DefaultXPValue = 10

// Question 小节内的题目。SectionID 为关系引用，Section 为旧版扁平编号，两者并存
// swagger:model Question
type Question struct {
	UUIDBase
	SectionID  string     `gorm:"size:36;index" json:"sectionId,omitempty"`
	Section    int        `gorm:"index" json:"section"`
	Text       string     `gorm:"type:text;not null" json:"text"`
	XPValue    int        `gorm:"default:10" json:"xpValue"`
	Difficulty Difficulty `gorm:"type:enum('easy','medium','hard');default:'easy'" json:"difficulty"`
	Order      int        `gorm:"default:0;index" json:"order"`
	IsActive   bool       `gorm:"default:true" json:"isActive"`
	Answers    []Answer   `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// XP 为空时回退默认值
func (q *Question) XP() int {
	if q.XPValue <= 0 {
		return DefaultXPValue
	}
	return q.XPValue
}

type Answer struct {
	UUIDBase
	QuestionID string `gorm:"size:36;index;not null" json:"questionId"`
	Content    string `gorm:"size:512;not null" json:"content"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
	Order      int    `gorm:"default:0" json:"order"`
	IsActive   bool   `gorm:"default:true" json:"isActive"`
}

func (Answer) TableName() string {
	return "answers"
}
