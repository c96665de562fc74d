package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/codercomm/services"
	"github.com/cppla/codercomm/utils"
)

// PostController exposes post CRUD, walls and post comment listings.
type PostController struct {
	posts *services.PostService
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{posts: services.NewPostService(db)}
}

// CreatePost handles POST /posts.
func (p *PostController) CreatePost(ctx *gin.Context) {
	const label = "Create Post Error"
	var req struct {
		Content string `json:"content" binding:"required"`
		Image   string `json:"image" binding:"max=1024"`
	}
	if !bindJSON(ctx, &req, label) {
		return
	}
	userID, ok := currentUser(ctx, label)
	if !ok {
		return
	}

	post, err := p.posts.Create(ctx.Request.Context(), userID, req.Content, req.Image)
	if err != nil {
		utils.Fail(ctx, label, err)
		return
	}
	utils.Success(ctx, post, "Create new post successfully")
}

// ListUserPosts handles GET /posts/user/:userId. The caller only sees posts by
// authors within reach of both the wall owner and themselves.
func (p *PostController) ListUserPosts(ctx *gin.Context) {
	const label = "Get Posts Error"
	callerID, ok := currentUser(ctx, label)
	if !ok {
		return
	}

	result, err := p.posts.ListByUser(ctx.Request.Context(), callerID, ctx.Param("userId"), parsePagination(ctx))
	if err != nil {
		utils.Fail(ctx, label, err)
		return
	}
	utils.Success(ctx, result, "Get posts successfully")
}

// UpdatePost handles PUT /posts/:id. Absent fields stay unchanged.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	const label = "Update Post Error"
	var req struct {
		Content *string `json:"content"`
		Image   *string `json:"image" binding:"omitempty,max=1024"`
	}
	if !bindJSON(ctx, &req, label) {
		return
	}
	userID, ok := currentUser(ctx, label)
	if !ok {
		return
	}

	post, err := p.posts.Update(ctx.Request.Context(), userID, ctx.Param("id"), services.PostUpdate{
		Content: req.Content,
		Image:   req.Image,
	})
	if err != nil {
		utils.Fail(ctx, label, err)
		return
	}
	utils.Success(ctx, post, "Update post successfully")
}

// DeletePost handles DELETE /posts/:id.
func (p *PostController) DeletePost(ctx *gin.Context) {
	const label = "Delete Post Error"
	userID, ok := currentUser(ctx, label)
	if !ok {
		return
	}

	post, err := p.posts.Delete(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		utils.Fail(ctx, label, err)
		return
	}
	utils.Success(ctx, post, "Delete post successfully")
}

// GetPost handles GET /posts/:id.
func (p *PostController) GetPost(ctx *gin.Context) {
	post, err := p.posts.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		utils.Fail(ctx, "Get Single Post Error", err)
		return
	}
	utils.Success(ctx, post, "Get single post successfully")
}

// ListComments handles GET /posts/:id/comments.
func (p *PostController) ListComments(ctx *gin.Context) {
	result, err := p.posts.ListComments(ctx.Request.Context(), ctx.Param("id"), parsePagination(ctx))
	if err != nil {
		utils.Fail(ctx, "Get Comments Error", err)
		return
	}
	utils.Success(ctx, result, "Get comments successfully")
}
