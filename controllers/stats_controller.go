package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/codercomm/services"
	"github.com/cppla/codercomm/utils"
)

// StatsController provides site-wide totals.
type StatsController struct {
	stats *services.StatsService
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{stats: services.NewStatsService(db)}
}

// GetStats returns counts of users, active posts and comments, reactions and friendships.
func (s *StatsController) GetStats(ctx *gin.Context) {
	totals, err := s.stats.Totals(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, "Get Stats Error", err)
		return
	}
	utils.Success(ctx, totals, "Get stats successfully")
}
