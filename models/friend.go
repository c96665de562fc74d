package models

import (
	"time"

	"gorm.io/gorm"
)

// FriendStatus is the state of a relationship between two users.
type FriendStatus string

const (
	FriendPending  FriendStatus = "pending"
	FriendAccepted FriendStatus = "accepted"
	FriendDeclined FriendStatus = "declined"
)

// Friend links a requester (From) and a recipient (To).
// PairKey is unique so an unordered pair carries one relationship at most.
type Friend struct {
	ID        string       `gorm:"primaryKey;size:24" json:"id"`
	FromID    string       `gorm:"size:24;not null;index" json:"fromId"`
	From      *User        `gorm:"foreignKey:FromID" json:"from,omitempty"`
	ToID      string       `gorm:"size:24;not null;index" json:"toId"`
	To        *User        `gorm:"foreignKey:ToID" json:"to,omitempty"`
	Status    FriendStatus `gorm:"size:16;not null;index" json:"status"`
	PairKey   string       `gorm:"size:49;not null;uniqueIndex" json:"-"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (f *Friend) BeforeCreate(tx *gorm.DB) error {
	ensureID(&f.ID)
	f.PairKey = PairKey(f.FromID, f.ToID)
	return nil
}

// Counterpart returns the id of the party that is not userID.
func (f Friend) Counterpart(userID string) string {
	if f.FromID == userID {
		return f.ToID
	}
	return f.FromID
}

// PairKey is the order independent key of two user ids.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}
