package model

// Campaign 顶层内容单元，按 Order 排序解锁
// swagger:model Campaign
type Campaign struct {
	UUIDBase
	Slug         string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Order        int       `gorm:"default:0;index" json:"order"`
	IsActive     bool      `gorm:"default:true" json:"isActive"`
	ThumbnailKey string    `gorm:"size:255" json:"thumbnailKey,omitempty"`
	ThumbnailURL string    `gorm:"size:512" json:"thumbnailUrl,omitempty"`
	ThumbnailAlt string    `gorm:"size:255" json:"thumbnailAlt,omitempty"`
	Sections     []Section `gorm:"foreignKey:CampaignID" json:"sections,omitempty"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

// CampaignProgress 每用户的战役完成标记。
// Completed 持久化后用于检测 false→true 的一次性跳变（前端 toast 只触发一次）。
type CampaignProgress struct {
	UUIDBase
	UserID     string `gorm:"size:36;index:idx_user_campaign,unique;not null" json:"userId"`
	CampaignID string `gorm:"size:36;index:idx_user_campaign,unique;not null" json:"campaignId"`
	Completed  bool   `gorm:"default:false" json:"completed"`
}

func (CampaignProgress) TableName() string {
	return "campaign_progress"
}
