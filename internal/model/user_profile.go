package model

// UserProfile 展示信息，仅用于问候语和头像，与进度逻辑无关
type UserProfile struct {
	UUIDBase
	UserID      string `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	Email       string `gorm:"size:255" json:"email,omitempty"`
	DisplayName string `gorm:"size:100" json:"displayName,omitempty"`
	AvatarKey   string `gorm:"size:255" json:"avatarKey,omitempty"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
