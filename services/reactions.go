package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/codercomm/models"
	"github.com/cppla/codercomm/utils"
)

// Reaction outcomes, also used as metric labels.
const (
	ReactionCreated  = "created"
	ReactionRemoved  = "removed"
	ReactionSwitched = "switched"
)

// ReactionService applies toggle semantics to reactions and keeps target tallies current.
type ReactionService struct {
	db *gorm.DB
}

func NewReactionService(db *gorm.DB) *ReactionService {
	return &ReactionService{db: db}
}

// resolveTarget maps a target kind onto its model. The set of kinds is closed.
func resolveTarget(kind models.TargetType) (models.Reactable, error) {
	switch kind {
	case models.TargetPost:
		return &models.Post{}, nil
	case models.TargetComment:
		return &models.Comment{}, nil
	default:
		return nil, models.NewValidationError(fmt.Sprintf("targetType must be one of [%s %s]", models.TargetPost, models.TargetComment))
	}
}

// Save toggles actorID's reaction on the target and returns the fresh tally.
// No reaction creates one, the same emoji removes it, a different emoji replaces it.
func (s *ReactionService) Save(ctx context.Context, actorID string, kind models.TargetType, targetID string, emoji models.Emoji) (models.ReactionTally, error) {
	if emoji != models.EmojiLike && emoji != models.EmojiDislike {
		return models.ReactionTally{}, models.NewValidationError("emoji must be one of [like dislike]")
	}
	target, err := resolveTarget(kind)
	if err != nil {
		return models.ReactionTally{}, err
	}

	var outcome string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id", "is_deleted").Where("id = ?", targetID).Take(target).Error; err != nil {
			return lookupError(err, string(kind))
		}
		if target.Deleted() {
			return models.NewNotFoundError(string(kind))
		}
		if kind == models.TargetComment {
			var n int64
			if err := tx.Model(&models.Comment{}).Where("id = ? AND post_id IN (?)", targetID, livePostIDs(tx)).Count(&n).Error; err != nil {
				return fmt.Errorf("load comment post: %w", err)
			}
			if n == 0 {
				return models.NewNotFoundError(string(kind))
			}
		}

		var existing models.Reaction
		err := tx.Where("author_id = ? AND target_id = ?", actorID, targetID).Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			r := models.Reaction{AuthorID: actorID, TargetType: kind, TargetID: targetID, Emoji: emoji}
			if err := tx.Create(&r).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return models.NewConflictError("Reaction was submitted concurrently, retry")
				}
				return fmt.Errorf("create reaction: %w", err)
			}
			outcome = ReactionCreated
		case err != nil:
			return fmt.Errorf("load reaction: %w", err)
		case existing.Emoji == emoji:
			if err := tx.Delete(&existing).Error; err != nil {
				return fmt.Errorf("delete reaction: %w", err)
			}
			outcome = ReactionRemoved
		default:
			if err := tx.Model(&existing).Update("emoji", emoji).Error; err != nil {
				return fmt.Errorf("update reaction: %w", err)
			}
			outcome = ReactionSwitched
		}

		return RefreshTally(tx, target, targetID)
	})
	if err != nil {
		return models.ReactionTally{}, err
	}
	utils.ReactionToggles.WithLabelValues(string(kind), outcome).Inc()
	return target.Tally(), nil
}

// RefreshTally recomputes like and dislike counts of targetID in one UPDATE and
// reloads them into target.
func RefreshTally(tx *gorm.DB, target models.Reactable, targetID string) error {
	count := func(emoji models.Emoji) interface{} {
		sub := fresh(tx).Model(&models.Reaction{}).Select("COUNT(*)").
			Where("target_id = ? AND emoji = ?", targetID, emoji)
		return gorm.Expr("(?)", sub)
	}
	err := fresh(tx).Model(target).Where("id = ?", targetID).UpdateColumns(map[string]interface{}{
		"reactions_like":    count(models.EmojiLike),
		"reactions_dislike": count(models.EmojiDislike),
	}).Error
	if err != nil {
		return fmt.Errorf("refresh reaction tally: %w", err)
	}
	if err := fresh(tx).Select("id", "reactions_like", "reactions_dislike").Where("id = ?", targetID).Take(target).Error; err != nil {
		return fmt.Errorf("reload reaction tally: %w", err)
	}
	return nil
}
