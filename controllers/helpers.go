package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cppla/codercomm/middleware"
	"github.com/cppla/codercomm/services"
	"github.com/cppla/codercomm/utils"
)

func parsePagination(ctx *gin.Context) services.Page {
	page, _ := strconv.Atoi(ctx.Query("page"))
	limit, _ := strconv.Atoi(ctx.Query("limit"))
	return services.NewPage(page, limit)
}

func getUserID(ctx *gin.Context) (string, bool) {
	id := ctx.GetString(middleware.ContextUserIDKey)
	return id, id != ""
}

// currentUser resolves the caller or writes a 401 and reports false.
func currentUser(ctx *gin.Context, label string) (string, bool) {
	id, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized", label)
	}
	return id, ok
}

// bindJSON binds the body into req or writes a 400 and reports false.
func bindJSON(ctx *gin.Context, req interface{}, label string) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.BindingMessage(err), label)
		return false
	}
	return true
}
