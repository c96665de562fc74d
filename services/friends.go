package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/codercomm/models"
	"github.com/cppla/codercomm/utils"
)

// FriendService owns the friend request lifecycle:
// pending -> accepted | declined, pending -> cancelled (deleted by the sender),
// accepted -> removed (deleted by either party).
type FriendService struct {
	db *gorm.DB
}

func NewFriendService(db *gorm.DB) *FriendService {
	return &FriendService{db: db}
}

// SendRequest creates a pending request from fromID to toID.
// Any existing relationship for the pair, in any state, is a conflict.
func (s *FriendService) SendRequest(ctx context.Context, fromID, toID string) (*models.Friend, error) {
	if fromID == toID {
		return nil, models.NewValidationError("You cannot send a friend request to yourself")
	}

	var friend models.Friend
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(tx, toID); err != nil {
			return err
		}

		existing, err := findPair(tx, fromID, toID)
		if err != nil {
			return err
		}
		if existing != nil {
			return existingPairError(existing, fromID)
		}

		friend = models.Friend{FromID: fromID, ToID: toID, Status: models.FriendPending}
		if err := tx.Create(&friend).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.NewConflictError("A relationship between these users already exists")
			}
			return fmt.Errorf("create friend request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.FriendTransitions.WithLabelValues("requested").Inc()
	return s.load(ctx, friend.ID)
}

// Respond lets the recipient accept or decline a pending request sent by fromID.
func (s *FriendService) Respond(ctx context.Context, actorID, fromID string, status models.FriendStatus) (*models.Friend, error) {
	if status != models.FriendAccepted && status != models.FriendDeclined {
		return nil, models.NewValidationError("status must be one of [accepted declined]")
	}

	var id string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		f, err := findPair(tx, actorID, fromID)
		if err != nil {
			return err
		}
		if f == nil {
			return models.NewNotFoundError("Friend request")
		}
		if f.ToID != actorID {
			return models.NewUnauthorizedError("Only the recipient can respond to a friend request")
		}
		if f.Status != models.FriendPending {
			return models.NewConflictError("Friend request has already been " + string(f.Status))
		}

		// guarded on status so a concurrent response cannot apply twice
		res := tx.Model(&models.Friend{}).
			Where("id = ? AND status = ?", f.ID, models.FriendPending).
			Update("status", status)
		if res.Error != nil {
			return fmt.Errorf("update friend request: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewConflictError("Friend request is no longer pending")
		}
		if status == models.FriendAccepted {
			if err := RefreshFriendCount(tx, f.FromID, f.ToID); err != nil {
				return err
			}
		}
		id = f.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.FriendTransitions.WithLabelValues(string(status)).Inc()
	return s.load(ctx, id)
}

// Cancel lets the sender withdraw a request to toID while it is still pending.
func (s *FriendService) Cancel(ctx context.Context, actorID, toID string) (*models.Friend, error) {
	var removed models.Friend
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		f, err := findPair(tx, actorID, toID)
		if err != nil {
			return err
		}
		if f == nil {
			return models.NewNotFoundError("Friend request")
		}
		if f.FromID != actorID {
			return models.NewUnauthorizedError("Only the sender can cancel a friend request")
		}
		if f.Status != models.FriendPending {
			return models.NewConflictError("Friend request has already been " + string(f.Status))
		}
		res := tx.Where("id = ? AND status = ?", f.ID, models.FriendPending).Delete(&models.Friend{})
		if res.Error != nil {
			return fmt.Errorf("cancel friend request: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewConflictError("Friend request is no longer pending")
		}
		removed = *f
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.FriendTransitions.WithLabelValues("cancelled").Inc()
	return &removed, nil
}

// Remove deletes an accepted relationship. Either party may do so.
func (s *FriendService) Remove(ctx context.Context, actorID, otherID string) (*models.Friend, error) {
	var removed models.Friend
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		f, err := findPair(tx, actorID, otherID)
		if err != nil {
			return err
		}
		if f == nil || f.Status != models.FriendAccepted {
			return models.NewNotFoundError("Friend")
		}
		res := tx.Where("id = ? AND status = ?", f.ID, models.FriendAccepted).Delete(&models.Friend{})
		if res.Error != nil {
			return fmt.Errorf("remove friend: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Friend")
		}
		if err := RefreshFriendCount(tx, f.FromID, f.ToID); err != nil {
			return err
		}
		removed = *f
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.FriendTransitions.WithLabelValues("removed").Inc()
	return &removed, nil
}

// ListFriends returns the accepted counterparts of userID, optionally filtered by name.
func (s *FriendService) ListFriends(ctx context.Context, userID, name string, page Page) (PageResult[models.User], error) {
	db := s.db.WithContext(ctx)
	accepted := models.FriendAccepted
	q := db.Model(&models.User{}).Where(
		"id IN (?) OR id IN (?)",
		db.Model(&models.Friend{}).Select("to_id").Where("from_id = ? AND status = ?", userID, accepted),
		db.Model(&models.Friend{}).Select("from_id").Where("to_id = ? AND status = ?", userID, accepted),
	)
	if name = strings.TrimSpace(name); name != "" {
		q = q.Where("name LIKE ?", "%"+name+"%")
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return PageResult[models.User]{}, fmt.Errorf("count friends: %w", err)
	}
	var users []models.User
	if err := q.Order("name ASC").Offset(page.Offset()).Limit(page.Limit).Find(&users).Error; err != nil {
		return PageResult[models.User]{}, fmt.Errorf("list friends: %w", err)
	}
	return newPageResult(users, count, page), nil
}

// ListIncoming returns pending requests addressed to userID.
func (s *FriendService) ListIncoming(ctx context.Context, userID string, page Page) (PageResult[models.Friend], error) {
	return s.listPending(ctx, "to_id", userID, page)
}

// ListOutgoing returns pending requests sent by userID.
func (s *FriendService) ListOutgoing(ctx context.Context, userID string, page Page) (PageResult[models.Friend], error) {
	return s.listPending(ctx, "from_id", userID, page)
}

func (s *FriendService) listPending(ctx context.Context, side, userID string, page Page) (PageResult[models.Friend], error) {
	q := s.db.WithContext(ctx).Model(&models.Friend{}).
		Where(side+" = ? AND status = ?", userID, models.FriendPending)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return PageResult[models.Friend]{}, fmt.Errorf("count friend requests: %w", err)
	}
	var items []models.Friend
	err := q.Preload("From").Preload("To").
		Order("created_at DESC").Offset(page.Offset()).Limit(page.Limit).
		Find(&items).Error
	if err != nil {
		return PageResult[models.Friend]{}, fmt.Errorf("list friend requests: %w", err)
	}
	return newPageResult(items, count, page), nil
}

// FriendIDs returns the ids of userID's accepted counterparts.
func FriendIDs(db *gorm.DB, userID string) ([]string, error) {
	var rels []models.Friend
	err := fresh(db).Select("from_id", "to_id").
		Where("status = ? AND (from_id = ? OR to_id = ?)", models.FriendAccepted, userID, userID).
		Find(&rels).Error
	if err != nil {
		return nil, fmt.Errorf("load friend ids: %w", err)
	}
	ids := make([]string, 0, len(rels))
	for _, r := range rels {
		ids = append(ids, r.Counterpart(userID))
	}
	return ids, nil
}

func (s *FriendService) load(ctx context.Context, id string) (*models.Friend, error) {
	var f models.Friend
	if err := s.db.WithContext(ctx).Preload("From").Preload("To").Where("id = ?", id).Take(&f).Error; err != nil {
		return nil, lookupError(err, "Friend request")
	}
	return &f, nil
}

// findPair returns the relationship between a and b regardless of direction, or nil.
func findPair(tx *gorm.DB, a, b string) (*models.Friend, error) {
	var f models.Friend
	err := fresh(tx).Where("pair_key = ?", models.PairKey(a, b)).Take(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load relationship: %w", err)
	}
	return &f, nil
}

func existingPairError(f *models.Friend, fromID string) error {
	switch f.Status {
	case models.FriendAccepted:
		return models.NewConflictError("Users are already friends")
	case models.FriendDeclined:
		return models.NewConflictError("Friend request has been declined")
	default:
		if f.FromID == fromID {
			return models.NewConflictError("Friend request has already been sent")
		}
		return models.NewConflictError("This user has already sent you a friend request")
	}
}

func ensureUser(tx *gorm.DB, userID string) error {
	var n int64
	if err := fresh(tx).Model(&models.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if n == 0 {
		return models.NewNotFoundError("User")
	}
	return nil
}
