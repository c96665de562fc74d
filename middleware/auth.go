package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/codercomm/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextClaimsKey stores the parsed token claims.
	ContextClaimsKey = "claims"
	// ContextTokenKey stores the raw bearer token, needed for logout.
	ContextTokenKey = "token"
)

const authLabel = "Login Required"

// AuthRequired ensures the request is authenticated via JWT.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(ctx, "authorization header missing")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(ctx, "invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			abortUnauthorized(ctx, "empty bearer token")
			return
		}

		if utils.IsTokenBlacklisted(ctx.Request.Context(), tokenString) {
			abortUnauthorized(ctx, "token revoked")
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			abortUnauthorized(ctx, "invalid token")
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextClaimsKey, claims)
		ctx.Set(ContextTokenKey, tokenString)
		ctx.Next()
	}
}

func abortUnauthorized(ctx *gin.Context, detail string) {
	utils.Error(ctx, http.StatusUnauthorized, detail, authLabel)
	ctx.Abort()
}
