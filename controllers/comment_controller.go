package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/codercomm/services"
	"github.com/cppla/codercomm/utils"
)

type CommentController struct {
	comments *services.CommentService
}

func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{comments: services.NewCommentService(db)}
}

func (c *CommentController) CreateComment(ctx *gin.Context) {
	const label = "Create Comment Error"
	var req struct {
		Content string `json:"content" binding:"required"`
		PostID  string `json:"postId" binding:"required,objectid"`
	}
	if !bindJSON(ctx, &req, label) {
		return
	}
	userID, ok := currentUser(ctx, label)
	if !ok {
		return
	}

	comment, err := c.comments.Create(ctx.Request.Context(), userID, req.PostID, req.Content)
	if err != nil {
		utils.Fail(ctx, label, err)
		return
	}
	utils.Success(ctx, comment, "Create new comment successfully")
}

func (c *CommentController) UpdateComment(ctx *gin.Context) {
	const label = "Update Comment Error"
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if !bindJSON(ctx, &req, label) {
		return
	}
	userID, ok := currentUser(ctx, label)
	if !ok {
		return
	}

	comment, err := c.comments.Update(ctx.Request.Context(), userID, ctx.Param("id"), req.Content)
	if err != nil {
		utils.Fail(ctx, label, err)
		return
	}
	utils.Success(ctx, comment, "Update comment successfully")
}

func (c *CommentController) DeleteComment(ctx *gin.Context) {
	const label = "Delete Comment Error"
	userID, ok := currentUser(ctx, label)
	if !ok {
		return
	}

	comment, err := c.comments.Delete(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		utils.Fail(ctx, label, err)
		return
	}
	utils.Success(ctx, comment, "Delete comment successfully")
}

func (c *CommentController) GetComment(ctx *gin.Context) {
	comment, err := c.comments.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		utils.Fail(ctx, "Get Single Comment Error", err)
		return
	}
	utils.Success(ctx, comment, "Get comment successfully")
}
