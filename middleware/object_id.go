package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/codercomm/models"
	"github.com/cppla/codercomm/utils"
)

// ValidateObjectIDs rejects the request when any of the named path params is not a
// well-formed document identifier.
func ValidateObjectIDs(params ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		for _, p := range params {
			if !models.IsValidID(ctx.Param(p)) {
				utils.Error(ctx, http.StatusBadRequest, p+" must be a valid id", "Validation Error")
				ctx.Abort()
				return
			}
		}
		ctx.Next()
	}
}
