package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Image keeps the metadata of an uploaded file: the name the uploader gave
// it, the generated object key and the public URL it is served from.
type Image struct {
	ID           string         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UploaderID   string         `gorm:"type:uuid;not null;index;references:members(id)" json:"uploader_id"`
	OriginalName string         `gorm:"type:varchar(255);not null" json:"original_name"`
	StoredName   string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"stored_name"`
	AccessURL    string         `gorm:"type:text;not null" json:"access_url"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook to generate UUID
func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Image) TableName() string {
	return "images"
}
