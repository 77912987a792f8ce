package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Member struct {
	ID              string         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email           string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password        string         `gorm:"type:varchar(255);not null" json:"-"`
	Nickname        string         `gorm:"type:varchar(50);not null;uniqueIndex" json:"nickname"`
	ProfileImageURL *string        `gorm:"type:text" json:"profile_image_url,omitempty"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook to generate UUID
func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Member) TableName() string {
	return "members"
}
