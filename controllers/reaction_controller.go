package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/codercomm/models"
	"github.com/cppla/codercomm/services"
	"github.com/cppla/codercomm/utils"
)

// ReactionController toggles reactions on posts and comments.
type ReactionController struct {
	reactions *services.ReactionService
}

func NewReactionController(db *gorm.DB) *ReactionController {
	return &ReactionController{reactions: services.NewReactionService(db)}
}

// SaveReaction handles POST /reactions and returns the target's fresh tally.
func (r *ReactionController) SaveReaction(ctx *gin.Context) {
	const label = "Save Reaction Error"
	var req struct {
		TargetType string `json:"targetType" binding:"required,oneof=Post Comment"`
		TargetID   string `json:"targetId" binding:"required,objectid"`
		Emoji      string `json:"emoji" binding:"required,oneof=like dislike"`
	}
	if !bindJSON(ctx, &req, label) {
		return
	}
	userID, ok := currentUser(ctx, label)
	if !ok {
		return
	}

	tally, err := r.reactions.Save(ctx.Request.Context(), userID,
		models.TargetType(req.TargetType), req.TargetID, models.Emoji(req.Emoji))
	if err != nil {
		utils.Fail(ctx, label, err)
		return
	}
	utils.Success(ctx, tally, "Save reaction successfully")
}
