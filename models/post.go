package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a wall entry. It is never physically removed; IsDeleted hides it.
type Post struct {
	ID           string        `gorm:"primaryKey;size:24" json:"id"`
	AuthorID     string        `gorm:"size:24;not null;index" json:"authorId"`
	Author       *User         `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Content      string        `gorm:"type:text;not null" json:"content"`
	Image        string        `gorm:"size:1024" json:"image"`
	CommentCount int64         `gorm:"not null;default:0" json:"commentCount"`
	Reactions    ReactionTally `gorm:"embedded;embeddedPrefix:reactions_" json:"reactions"`
	IsDeleted    bool          `gorm:"not null;default:false;index" json:"isDeleted"`
	Comments     []Comment     `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	CreatedAt    time.Time     `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
