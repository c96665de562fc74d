package models

import (
	"time"

	"gorm.io/gorm"
)

// TargetType names the kind of document a reaction points at.
type TargetType string

const (
	TargetPost    TargetType = "Post"
	TargetComment TargetType = "Comment"
)

// Emoji is the reaction value.
type Emoji string

const (
	EmojiLike    Emoji = "like"
	EmojiDislike Emoji = "dislike"
)

// ReactionTally is the denormalized like/dislike count stored on a target.
type ReactionTally struct {
	Like    int64 `gorm:"not null;default:0" json:"like"`
	Dislike int64 `gorm:"not null;default:0" json:"dislike"`
}

// Total returns the number of reactions counted in the tally.
func (t ReactionTally) Total() int64 {
	return t.Like + t.Dislike
}

// Reaction is one user's reaction to a post or comment.
// The unique index allows at most one reaction per author and target.
type Reaction struct {
	ID         string     `gorm:"primaryKey;size:24" json:"id"`
	AuthorID   string     `gorm:"size:24;not null;uniqueIndex:idx_reaction_author_target" json:"author"`
	TargetType TargetType `gorm:"size:16;not null" json:"targetType"`
	TargetID   string     `gorm:"size:24;not null;uniqueIndex:idx_reaction_author_target;index:idx_reaction_target" json:"targetId"`
	Emoji      Emoji      `gorm:"size:16;not null" json:"emoji"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (r *Reaction) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// Reactable is a document that carries a reaction tally and a soft-delete flag.
type Reactable interface {
	Tally() ReactionTally
	Deleted() bool
}

func (p *Post) Tally() ReactionTally { return p.Reactions }
func (p *Post) Deleted() bool        { return p.IsDeleted }

func (c *Comment) Tally() ReactionTally { return c.Reactions }
func (c *Comment) Deleted() bool        { return c.IsDeleted }
