package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a member of the network. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           string    `gorm:"primaryKey;size:24" json:"id"`
	Name         string    `gorm:"size:64;not null;index" json:"name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	AvatarURL    string    `gorm:"size:512" json:"avatarUrl"`
	CoverURL     string    `gorm:"size:512" json:"coverUrl"`
	AboutMe      string    `gorm:"size:1024" json:"aboutMe"`
	City         string    `gorm:"size:128" json:"city"`
	Country      string    `gorm:"size:128" json:"country"`
	PostCount    int64     `gorm:"not null;default:0" json:"postCount"`
	FriendCount  int64     `gorm:"not null;default:0" json:"friendCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the identifier when the caller did not.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
