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

// UserService handles registration, credentials and profiles.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ProfileUpdate carries the editable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	Name      *string
	AvatarURL *string
	CoverURL  *string
	AboutMe   *string
	City      *string
	Country   *string
}

// Register creates an account. Emails are unique and compared case-insensitively.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = utils.SanitizePlain(name)
	email = normalizeEmail(email)
	if name == "" {
		return nil, models.NewValidationError("name is required")
	}
	if email == "" {
		return nil, models.NewValidationError("email is required")
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if n > 0 {
		return nil, models.NewConflictError("User already exists")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("User already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Authenticate returns the user owning email when password matches.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewValidationError("Invalid credentials")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, models.NewValidationError("Invalid credentials")
	}
	return &user, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).Take(&user).Error; err != nil {
		return nil, lookupError(err, "User")
	}
	return &user, nil
}

// UpdateProfile applies the non-nil fields of in to userID's profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	set := func(column string, v *string) {
		if v != nil {
			changes[column] = utils.SanitizePlain(*v)
		}
	}
	set("name", in.Name)
	set("avatar_url", in.AvatarURL)
	set("cover_url", in.CoverURL)
	set("about_me", in.AboutMe)
	set("city", in.City)
	set("country", in.Country)
	if name, ok := changes["name"]; ok && name == "" {
		return nil, models.NewValidationError("name cannot be empty")
	}
	if len(changes) == 0 {
		return user, nil
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(changes).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.Get(ctx, userID)
}

// List returns users, optionally filtered by a name fragment.
func (s *UserService) List(ctx context.Context, name string, page Page) (PageResult[models.User], error) {
	q := s.db.WithContext(ctx).Model(&models.User{})
	if name = strings.TrimSpace(name); name != "" {
		q = q.Where("name LIKE ?", "%"+name+"%")
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return PageResult[models.User]{}, fmt.Errorf("count users: %w", err)
	}
	var users []models.User
	if err := q.Order("created_at DESC").Offset(page.Offset()).Limit(page.Limit).Find(&users).Error; err != nil {
		return PageResult[models.User]{}, fmt.Errorf("list users: %w", err)
	}
	return newPageResult(users, count, page), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
