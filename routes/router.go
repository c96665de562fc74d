package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/cppla/codercomm/config"
	"github.com/cppla/codercomm/controllers"
	"github.com/cppla/codercomm/middleware"
	"github.com/cppla/codercomm/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	utils.RegisterValidators()

	r := gin.New()
	// Access logs go to their own rolling file when configured
	gl := utils.Logger
	if cfg.GinPath != "" {
		l, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
		if err != nil {
			utils.Sugar.Warnf("gin access log disabled: %v", err)
		} else {
			gl = l
		}
	}
	r.Use(middleware.RequestID())
	r.Use(utils.Ginzap(gl, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(gl, true))
	r.Use(middleware.Metrics())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"}, "ok")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authController := controllers.NewAuthController(db)
	postController := controllers.NewPostController(db)
	commentController := controllers.NewCommentController(db)
	reactionController := controllers.NewReactionController(db)
	friendController := controllers.NewFriendController(db)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api")
	api.GET("/stats", statsController.GetStats)

	public := api.Group("")
	public.Use(middleware.RateLimitMiddleware())
	public.POST("/users", authController.Register)
	public.POST("/auth/login", authController.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	id := middleware.ValidateObjectIDs("id")
	userID := middleware.ValidateObjectIDs("userId")

	protected.POST("/auth/logout", authController.Logout)
	protected.GET("/users", authController.ListUsers)
	protected.GET("/users/me", authController.Me)
	protected.PUT("/users/me", authController.UpdateProfile)
	protected.GET("/users/:id", id, authController.GetUser)

	protected.POST("/comments", commentController.CreateComment)
	protected.PUT("/comments/:id", id, commentController.UpdateComment)
	protected.DELETE("/comments/:id", id, commentController.DeleteComment)
	protected.GET("/comments/:id", id, commentController.GetComment)

	protected.POST("/posts", postController.CreatePost)
	protected.GET("/posts/user/:userId", userID, postController.ListUserPosts)
	protected.PUT("/posts/:id", id, postController.UpdatePost)
	protected.DELETE("/posts/:id", id, postController.DeletePost)
	protected.GET("/posts/:id", id, postController.GetPost)
	protected.GET("/posts/:id/comments", id, postController.ListComments)

	protected.POST("/reactions", reactionController.SaveReaction)

	protected.POST("/friends/requests", friendController.SendRequest)
	protected.GET("/friends/requests/incoming", friendController.ListIncoming)
	protected.GET("/friends/requests/outgoing", friendController.ListOutgoing)
	protected.GET("/friends", friendController.ListFriends)
	protected.PUT("/friends/requests/:userId", userID, friendController.RespondRequest)
	protected.DELETE("/friends/requests/:userId", userID, friendController.CancelRequest)
	protected.DELETE("/friends/:userId", userID, friendController.RemoveFriend)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, "route not found", "Not Found")
	})

	return r
}
