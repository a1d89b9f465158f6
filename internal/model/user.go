package model

import "time"

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

type User struct {
	UUIDBase
	Email      string   `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password   string   `gorm:"size:255;not null" json:"-"`
	Role       UserRole `gorm:"type:enum('student','admin');default:'student'" json:"role"`
	LastSeenAt *time.Time `json:"lastSeenAt,omitempty"`
}

func (User) TableName() string {
	return "users"
}
