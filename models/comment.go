package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a reply to a post.
type Comment struct {
	ID        string        `gorm:"primaryKey;size:24" json:"id"`
	AuthorID  string        `gorm:"size:24;not null;index" json:"authorId"`
	Author    *User         `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	PostID    string        `gorm:"size:24;not null;index" json:"post"`
	Content   string        `gorm:"type:text;not null" json:"content"`
	Reactions ReactionTally `gorm:"embedded;embeddedPrefix:reactions_" json:"reactions"`
	IsDeleted bool          `gorm:"not null;default:false;index" json:"isDeleted"`
	CreatedAt time.Time     `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
