package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/codercomm/models"
)

// Stats are site-wide totals of active documents.
type Stats struct {
	Users       int64 `json:"users"`
	Posts       int64 `json:"posts"`
	Comments    int64 `json:"comments"`
	Reactions   int64 `json:"reactions"`
	Friendships int64 `json:"friendships"`
}

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

func (s *StatsService) Totals(ctx context.Context) (Stats, error) {
	db := s.db.WithContext(ctx)
	var out Stats
	counts := []struct {
		name  string
		query *gorm.DB
		dest  *int64
	}{
		{"users", db.Model(&models.User{}), &out.Users},
		{"posts", db.Model(&models.Post{}).Where("is_deleted = ?", false), &out.Posts},
		{"comments", db.Model(&models.Comment{}).Where("is_deleted = ?", false), &out.Comments},
		{"reactions", db.Model(&models.Reaction{}), &out.Reactions},
		{"friendships", db.Model(&models.Friend{}).Where("status = ?", models.FriendAccepted), &out.Friendships},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return Stats{}, fmt.Errorf("count %s: %w", c.name, err)
		}
	}
	return out, nil
}
