package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/codercomm/models"
	"github.com/cppla/codercomm/utils"
)

// PostService manages posts and keeps the authors' postCount current.
type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// PostUpdate carries the optional fields of an update. Nil means unchanged.
type PostUpdate struct {
	Content *string
	Image   *string
}

func (s *PostService) Create(ctx context.Context, authorID, content, image string) (*models.Post, error) {
	content = utils.Sanitize(content)
	if content == "" {
		return nil, models.NewValidationError("content is required")
	}

	post := models.Post{AuthorID: authorID, Content: content, Image: utils.SanitizePlain(image)}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(tx, authorID); err != nil {
			return err
		}
		if err := tx.Create(&post).Error; err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		return RefreshPostCount(tx, authorID)
	})
	if err != nil {
		return nil, err
	}
	return s.withAuthor(ctx, post.ID)
}

// Update changes content and image of a post. Only the author may do so.
func (s *PostService) Update(ctx context.Context, actorID, postID string, in PostUpdate) (*models.Post, error) {
	changes := map[string]interface{}{}
	if in.Content != nil {
		content := utils.Sanitize(*in.Content)
		if content == "" {
			return nil, models.NewValidationError("content cannot be empty")
		}
		changes["content"] = content
	}
	if in.Image != nil {
		changes["image"] = utils.SanitizePlain(*in.Image)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := s.active(tx, postID)
		if err != nil {
			return err
		}
		if post.AuthorID != actorID {
			return models.NewUnauthorizedError("Only author can update post")
		}
		if len(changes) == 0 {
			return nil
		}
		// a post deleted since the load above must not take the edit
		res := tx.Model(&models.Post{}).
			Where("id = ? AND is_deleted = ?", post.ID, false).
			Updates(changes)
		if res.Error != nil {
			return fmt.Errorf("update post: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.withAuthor(ctx, postID)
}

// Delete soft-deletes a post and refreshes the author's postCount.
func (s *PostService) Delete(ctx context.Context, actorID, postID string) (*models.Post, error) {
	var post *models.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if post, err = s.active(tx, postID); err != nil {
			return err
		}
		if post.AuthorID != actorID {
			return models.NewUnauthorizedError("Only author can delete post")
		}
		res := tx.Model(&models.Post{}).
			Where("id = ? AND is_deleted = ?", post.ID, false).
			UpdateColumn("is_deleted", true)
		if res.Error != nil {
			return fmt.Errorf("delete post: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post")
		}
		return RefreshPostCount(tx, post.AuthorID)
	})
	if err != nil {
		return nil, err
	}
	return s.withAuthor(ctx, post.ID)
}

// Get returns a post with its author and non-deleted comments, newest first.
func (s *PostService) Get(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("created_at DESC")
		}).
		Preload("Comments.Author").
		Where("id = ? AND is_deleted = ?", postID, false).
		Take(&post).Error
	if err != nil {
		return nil, lookupError(err, "Post")
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	return &post, nil
}

// ListByUser returns the wall of userID as seen by callerID: non-deleted posts whose
// author belongs to both {userID}+friends(userID) and {callerID}+friends(callerID).
func (s *PostService) ListByUser(ctx context.Context, callerID, userID string, page Page) (PageResult[models.Post], error) {
	db := s.db.WithContext(ctx)
	if err := ensureUser(db, userID); err != nil {
		return PageResult[models.Post]{}, err
	}

	authors, err := s.visibleAuthors(db, callerID, userID)
	if err != nil {
		return PageResult[models.Post]{}, err
	}
	if len(authors) == 0 {
		return newPageResult([]models.Post(nil), 0, page), nil
	}

	q := db.Model(&models.Post{}).Where("author_id IN ? AND is_deleted = ?", authors, false)
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return PageResult[models.Post]{}, fmt.Errorf("count posts: %w", err)
	}
	var posts []models.Post
	err = q.Preload("Author").
		Order("created_at DESC").Offset(page.Offset()).Limit(page.Limit).
		Find(&posts).Error
	if err != nil {
		return PageResult[models.Post]{}, fmt.Errorf("list posts: %w", err)
	}
	return newPageResult(posts, count, page), nil
}

// ListComments returns the non-deleted comments of a post, newest first.
func (s *PostService) ListComments(ctx context.Context, postID string, page Page) (PageResult[models.Comment], error) {
	db := s.db.WithContext(ctx)
	if _, err := s.active(db, postID); err != nil {
		return PageResult[models.Comment]{}, err
	}

	q := db.Model(&models.Comment{}).Where("post_id = ? AND is_deleted = ?", postID, false)
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return PageResult[models.Comment]{}, fmt.Errorf("count comments: %w", err)
	}
	var comments []models.Comment
	err := q.Preload("Author").
		Order("created_at DESC").Offset(page.Offset()).Limit(page.Limit).
		Find(&comments).Error
	if err != nil {
		return PageResult[models.Comment]{}, fmt.Errorf("list comments: %w", err)
	}
	return newPageResult(comments, count, page), nil
}

func (s *PostService) visibleAuthors(db *gorm.DB, callerID, userID string) ([]string, error) {
	wall, err := FriendIDs(db, userID)
	if err != nil {
		return nil, err
	}
	wall = append(wall, userID)
	if callerID == userID {
		return wall, nil
	}

	callerFriends, err := FriendIDs(db, callerID)
	if err != nil {
		return nil, err
	}
	reach := make(map[string]struct{}, len(callerFriends)+1)
	reach[callerID] = struct{}{}
	for _, id := range callerFriends {
		reach[id] = struct{}{}
	}

	out := wall[:0]
	for _, id := range wall {
		if _, ok := reach[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

// active loads a non-deleted post.
func (s *PostService) active(db *gorm.DB, postID string) (*models.Post, error) {
	var post models.Post
	if err := fresh(db).Where("id = ? AND is_deleted = ?", postID, false).Take(&post).Error; err != nil {
		return nil, lookupError(err, "Post")
	}
	return &post, nil
}

// withAuthor reloads a post with its author, deleted or not.
func (s *PostService) withAuthor(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("Author").Where("id = ?", postID).Take(&post).Error; err != nil {
		return nil, lookupError(err, "Post")
	}
	return &post, nil
}

// livePostIDs selects the ids of non-deleted posts, for use as a subquery.
func livePostIDs(db *gorm.DB) *gorm.DB {
	return fresh(db).Model(&models.Post{}).Select("id").Where("is_deleted = ?", false)
}
