package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeletedContentPlaceholder replaces the content of a soft-deleted comment.
const DeletedContentPlaceholder = "[deleted comment]"

// Comment is one node of a post's two-tier discussion. ParentID is nil for
// root comments and references another comment of the same post for replies.
//
// Deletion is modeled with an explicit flag instead of gorm's DeletedAt:
// a soft-deleted comment that still anchors replies must keep showing up in
// root listings, which a DeletedAt-scoped model would silently exclude.
// A soft-deleted comment with no remaining children is hard-deleted instead,
// so the table never accumulates deleted, childless rows.
type Comment struct {
	ID        string    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	PostID    string    `gorm:"type:uuid;not null;index;references:posts(id)" json:"post_id"`
	AuthorID  string    `gorm:"type:uuid;not null;index;references:members(id)" json:"author_id"`
	ParentID  *string   `gorm:"type:uuid;index;references:comments(id)" json:"parent_id,omitempty"`
	Content   string    `gorm:"type:varchar(1000);not null" json:"content"`
	Deleted   bool      `gorm:"not null;default:false" json:"deleted"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Post   Post   `gorm:"foreignKey:PostID;references:ID" json:"post,omitempty"`
	Author Member `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Comment) TableName() string {
	return "comments"
}

// SoftDelete marks the comment deleted and blanks its content with the
// placeholder. The original text is not retained.
func (c *Comment) SoftDelete() {
	c.Deleted = true
	c.Content = DeletedContentPlaceholder
}

// VisibleContent returns the placeholder for deleted comments regardless of
// what the row holds, so readers never see stale content.
func (c *Comment) VisibleContent() string {
	if c.Deleted {
		return DeletedContentPlaceholder
	}
	return c.Content
}
