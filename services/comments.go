package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/codercomm/models"
	"github.com/cppla/codercomm/utils"
)

// CommentService manages comments and keeps each post's commentCount current.
type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

func (s *CommentService) Create(ctx context.Context, authorID, postID, content string) (*models.Comment, error) {
	content = utils.Sanitize(content)
	if content == "" {
		return nil, models.NewValidationError("content is required")
	}

	comment := models.Comment{AuthorID: authorID, PostID: postID, Content: content}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Post{}).Where("id = ? AND is_deleted = ?", postID, false).Count(&n).Error; err != nil {
			return fmt.Errorf("load post: %w", err)
		}
		if n == 0 {
			return models.NewNotFoundError("Post")
		}
		if err := tx.Create(&comment).Error; err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		return RefreshCommentCount(tx, postID)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, comment.ID)
}

// Update replaces the content of a comment. Only the author may do so.
func (s *CommentService) Update(ctx context.Context, actorID, commentID, content string) (*models.Comment, error) {
	content = utils.Sanitize(content)
	if content == "" {
		return nil, models.NewValidationError("content is required")
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comment, err := s.active(tx, commentID)
		if err != nil {
			return err
		}
		if comment.AuthorID != actorID {
			return models.NewUnauthorizedError("Only author can update comment")
		}
		res := tx.Model(&models.Comment{}).
			Where("id = ? AND is_deleted = ?", comment.ID, false).
			Update("content", content)
		if res.Error != nil {
			return fmt.Errorf("update comment: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Comment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, commentID)
}

// Delete soft-deletes a comment and refreshes the post's commentCount.
func (s *CommentService) Delete(ctx context.Context, actorID, commentID string) (*models.Comment, error) {
	var comment *models.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if comment, err = s.active(tx, commentID); err != nil {
			return err
		}
		if comment.AuthorID != actorID {
			return models.NewUnauthorizedError("Only author can delete comment")
		}
		res := tx.Model(&models.Comment{}).
			Where("id = ? AND is_deleted = ?", comment.ID, false).
			UpdateColumn("is_deleted", true)
		if res.Error != nil {
			return fmt.Errorf("delete comment: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Comment")
		}
		return RefreshCommentCount(tx, comment.PostID)
	})
	if err != nil {
		return nil, err
	}
	return s.withAuthor(ctx, comment.ID)
}

// Get returns a non-deleted comment of a non-deleted post, with its author.
func (s *CommentService) Get(ctx context.Context, commentID string) (*models.Comment, error) {
	db := s.db.WithContext(ctx)
	var comment models.Comment
	err := db.Preload("Author").
		Where("id = ? AND is_deleted = ? AND post_id IN (?)", commentID, false, livePostIDs(db)).
		Take(&comment).Error
	if err != nil {
		return nil, lookupError(err, "Comment")
	}
	return &comment, nil
}

// active loads a comment that is visible: neither it nor its post is deleted.
func (s *CommentService) active(db *gorm.DB, commentID string) (*models.Comment, error) {
	var comment models.Comment
	err := fresh(db).
		Where("id = ? AND is_deleted = ? AND post_id IN (?)", commentID, false, livePostIDs(db)).
		Take(&comment).Error
	if err != nil {
		return nil, lookupError(err, "Comment")
	}
	return &comment, nil
}

func (s *CommentService) withAuthor(ctx context.Context, commentID string) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).Preload("Author").Where("id = ?", commentID).Take(&comment).Error; err != nil {
		return nil, lookupError(err, "Comment")
	}
	return &comment, nil
}
