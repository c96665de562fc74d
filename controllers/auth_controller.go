package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/codercomm/middleware"
	"github.com/cppla/codercomm/models"
	"github.com/cppla/codercomm/services"
	"github.com/cppla/codercomm/utils"
)

// AuthController handles registration, login/logout and user profiles.
type AuthController struct {
	users *services.UserService
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{users: services.NewUserService(db)}
}

// Register handles POST /users.
func (a *AuthController) Register(ctx *gin.Context) {
	const label = "Register Error"
	var req struct {
		Name     string `json:"name" binding:"required,max=64"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6,max=72"`
	}
	if !bindJSON(ctx, &req, label) {
		return
	}

	user, err := a.users.Register(ctx.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		utils.Fail(ctx, label, err)
		return
	}
	a.respondWithToken(ctx, user, label, "Create user successfully")
}

// Login handles POST /auth/login.
func (a *AuthController) Login(ctx *gin.Context) {
	const label = "Login Error"
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(ctx, &req, label) {
		return
	}

	user, err := a.users.Authenticate(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.Fail(ctx, label, err)
		return
	}
	a.respondWithToken(ctx, user, label, "Login successfully")
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	const label = "Logout Error"
	token := ctx.GetString(middleware.ContextTokenKey)
	v, _ := ctx.Get(middleware.ContextClaimsKey)
	claims, ok := v.(*utils.Claims)
	if token == "" || !ok {
		utils.Error(ctx, http.StatusUnauthorized, "invalid token", label)
		return
	}

	expiresAt := time.Now().Add(utils.TokenTTL())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := utils.BlacklistToken(ctx.Request.Context(), token, expiresAt); err != nil {
		utils.Fail(ctx, label, err)
		return
	}
	utils.Success(ctx, nil, "Logout successfully")
}

// Me handles GET /users/me.
func (a *AuthController) Me(ctx *gin.Context) {
	const label = "Get Current User Error"
	userID, ok := currentUser(ctx, label)
	if !ok {
		return
	}
	user, err := a.users.Get(ctx.Request.Context(), userID)
	if err != nil {
		utils.Fail(ctx, label, err)
		return
	}
	utils.Success(ctx, user, "Get current user successfully")
}

// UpdateProfile handles PUT /users/me. Absent fields stay unchanged.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	const label = "Update Profile Error"
	var req struct {
		Name      *string `json:"name" binding:"omitempty,max=64"`
		AvatarURL *string `json:"avatarUrl" binding:"omitempty,max=512"`
		CoverURL  *string `json:"coverUrl" binding:"omitempty,max=512"`
		AboutMe   *string `json:"aboutMe" binding:"omitempty,max=1024"`
		City      *string `json:"city" binding:"omitempty,max=128"`
		Country   *string `json:"country" binding:"omitempty,max=128"`
	}
	if !bindJSON(ctx, &req, label) {
		return
	}
	userID, ok := currentUser(ctx, label)
	if !ok {
		return
	}

	user, err := a.users.UpdateProfile(ctx.Request.Context(), userID, services.ProfileUpdate{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
		CoverURL:  req.CoverURL,
		AboutMe:   req.AboutMe,
		City:      req.City,
		Country:   req.Country,
	})
	if err != nil {
		utils.Fail(ctx, label, err)
		return
	}
	utils.Success(ctx, user, "Update profile successfully")
}

// GetUser handles GET /users/:id.
func (a *AuthController) GetUser(ctx *gin.Context) {
	user, err := a.users.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		utils.Fail(ctx, "Get User Error", err)
		return
	}
	utils.Success(ctx, user, "Get user successfully")
}

// ListUsers handles GET /users with an optional name filter.
func (a *AuthController) ListUsers(ctx *gin.Context) {
	result, err := a.users.List(ctx.Request.Context(), ctx.Query("name"), parsePagination(ctx))
	if err != nil {
		utils.Fail(ctx, "Get Users Error", err)
		return
	}
	utils.Success(ctx, result, "Get users successfully")
}

func (a *AuthController) respondWithToken(ctx *gin.Context, user *models.User, label, message string) {
	token, err := utils.GenerateToken(user.ID, user.Name, utils.TokenTTL())
	if err != nil {
		utils.Fail(ctx, label, err)
		return
	}
	utils.Success(ctx, gin.H{"user": user, "accessToken": token}, message)
}
