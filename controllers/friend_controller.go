package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/codercomm/models"
	"github.com/cppla/codercomm/services"
	"github.com/cppla/codercomm/utils"
)

// FriendController exposes the friend request lifecycle.
type FriendController struct {
	friends *services.FriendService
}

func NewFriendController(db *gorm.DB) *FriendController {
	return &FriendController{friends: services.NewFriendService(db)}
}

// SendRequest handles POST /friends/requests.
func (f *FriendController) SendRequest(ctx *gin.Context) {
	const label = "Send Friend Request Error"
	var req struct {
		To string `json:"to" binding:"required,objectid"`
	}
	if !bindJSON(ctx, &req, label) {
		return
	}
	userID, ok := currentUser(ctx, label)
	if !ok {
		return
	}

	friend, err := f.friends.SendRequest(ctx.Request.Context(), userID, req.To)
	if err != nil {
		utils.Fail(ctx, label, err)
		return
	}
	utils.Success(ctx, friend, "Send friend request successfully")
}

// ListIncoming handles GET /friends/requests/incoming.
func (f *FriendController) ListIncoming(ctx *gin.Context) {
	const label = "Get Received Friend Requests Error"
	userID, ok := currentUser(ctx, label)
	if !ok {
		return
	}
	result, err := f.friends.ListIncoming(ctx.Request.Context(), userID, parsePagination(ctx))
	if err != nil {
		utils.Fail(ctx, label, err)
		return
	}
	utils.Success(ctx, result, "Get received friend requests successfully")
}

// ListOutgoing handles GET /friends/requests/outgoing.
func (f *FriendController) ListOutgoing(ctx *gin.Context) {
	const label = "Get Sent Friend Requests Error"
	userID, ok := currentUser(ctx, label)
	if !ok {
		return
	}
	result, err := f.friends.ListOutgoing(ctx.Request.Context(), userID, parsePagination(ctx))
	if err != nil {
		utils.Fail(ctx, label, err)
		return
	}
	utils.Success(ctx, result, "Get sent friend requests successfully")
}

// ListFriends handles GET /friends.
func (f *FriendController) ListFriends(ctx *gin.Context) {
	const label = "Get Friends Error"
	userID, ok := currentUser(ctx, label)
	if !ok {
		return
	}
	result, err := f.friends.ListFriends(ctx.Request.Context(), userID, ctx.Query("name"), parsePagination(ctx))
	if err != nil {
		utils.Fail(ctx, label, err)
		return
	}
	utils.Success(ctx, result, "Get friends successfully")
}

// RespondRequest handles PUT /friends/requests/:userId, where userId sent the request.
func (f *FriendController) RespondRequest(ctx *gin.Context) {
	const label = "Respond Friend Request Error"
	var req struct {
		Status string `json:"status" binding:"required,oneof=accepted declined"`
	}
	if !bindJSON(ctx, &req, label) {
		return
	}
	userID, ok := currentUser(ctx, label)
	if !ok {
		return
	}

	friend, err := f.friends.Respond(ctx.Request.Context(), userID, ctx.Param("userId"), models.FriendStatus(req.Status))
	if err != nil {
		utils.Fail(ctx, label, err)
		return
	}
	utils.Success(ctx, friend, "Friend request "+req.Status)
}

// CancelRequest handles DELETE /friends/requests/:userId, where userId is the recipient.
func (f *FriendController) CancelRequest(ctx *gin.Context) {
	const label = "Cancel Friend Request Error"
	userID, ok := currentUser(ctx, label)
	if !ok {
		return
	}
	friend, err := f.friends.Cancel(ctx.Request.Context(), userID, ctx.Param("userId"))
	if err != nil {
		utils.Fail(ctx, label, err)
		return
	}
	utils.Success(ctx, friend, "Friend request cancelled")
}

// RemoveFriend handles DELETE /friends/:userId.
func (f *FriendController) RemoveFriend(ctx *gin.Context) {
	const label = "Remove Friend Error"
	userID, ok := currentUser(ctx, label)
	if !ok {
		return
	}
	friend, err := f.friends.Remove(ctx.Request.Context(), userID, ctx.Param("userId"))
	if err != nil {
		utils.Fail(ctx, label, err)
		return
	}
	utils.Success(ctx, friend, "Friend removed")
}
