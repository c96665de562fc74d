package services

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cppla/codercomm/models"
	"github.com/cppla/codercomm/utils"
)

// Counter names, also used as metric labels.
const (
	counterPostCount    = "post_count"
	counterCommentCount = "comment_count"
	counterFriendCount  = "friend_count"
)

// RefreshPostCount stores the number of non-deleted posts of userID on the user.
func RefreshPostCount(tx *gorm.DB, userID string) error {
	sub := fresh(tx).Model(&models.Post{}).Select("COUNT(*)").
		Where("author_id = ? AND is_deleted = ?", userID, false)
	return refreshColumn(tx, &models.User{}, userID, counterPostCount, sub)
}

// RefreshCommentCount stores the number of non-deleted comments of postID on the post.
func RefreshCommentCount(tx *gorm.DB, postID string) error {
	sub := fresh(tx).Model(&models.Comment{}).Select("COUNT(*)").
		Where("post_id = ? AND is_deleted = ?", postID, false)
	return refreshColumn(tx, &models.Post{}, postID, counterCommentCount, sub)
}

// RefreshFriendCount stores each user's number of accepted relationships.
func RefreshFriendCount(tx *gorm.DB, userIDs ...string) error {
	for _, id := range userIDs {
		sub := fresh(tx).Model(&models.Friend{}).Select("COUNT(*)").
			Where("status = ? AND (from_id = ? OR to_id = ?)", models.FriendAccepted, id, id)
		if err := refreshColumn(tx, &models.User{}, id, counterFriendCount, sub); err != nil {
			return err
		}
	}
	return nil
}

// refreshColumn recomputes one counter in a single UPDATE ... SET col = (SELECT COUNT(*) ...).
// A missing parent is logged and counted, never returned.
func refreshColumn(tx *gorm.DB, model interface{}, id, column string, sub *gorm.DB) error {
	res := fresh(tx).Model(model).Where("id = ?", id).UpdateColumn(column, gorm.Expr("(?)", sub))
	if res.Error != nil {
		return fmt.Errorf("refresh %s: %w", column, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// MySQL reports zero affected rows when the value did not change
	var n int64
	if err := fresh(tx).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("refresh %s: %w", column, err)
	}
	if n == 0 {
		utils.CounterRefreshMisses.WithLabelValues(column).Inc()
		utils.Logger.Warn("counter parent missing",
			zap.String("counter", column),
			zap.String("id", id),
		)
	}
	return nil
}

// fresh returns a statement-free session bound to the same connection and context.
func fresh(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true})
}
