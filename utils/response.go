package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/codercomm/models"
)

// JSONResponse defines the uniform structure for API responses.
type JSONResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Errors  interface{} `json:"errors"`
	Message string      `json:"message"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, success bool, data, errs interface{}, message string) {
	ctx.JSON(status, JSONResponse{
		Success: success,
		Data:    data,
		Errors:  errs,
		Message: message,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}, message string) {
	Respond(ctx, http.StatusOK, true, data, nil, message)
}

// Error returns a standard error response. label names the failing operation.
func Error(ctx *gin.Context, status int, detail, label string) {
	Respond(ctx, status, false, nil, gin.H{"message": detail}, label)
}

// Fail renders err. AppErrors keep their status and message; anything else is
// logged and reported as an internal error without leaking the cause.
func Fail(ctx *gin.Context, label string, err error) {
	appErr := models.AsAppError(err)
	if appErr.Label != "" {
		label = appErr.Label
	}
	if appErr.Kind == models.KindInternal {
		_ = ctx.Error(err)
		Logger.Error(label,
			zap.Error(err),
			zap.String("path", ctx.FullPath()),
			zap.String(RequestIDKey, ctx.GetString(RequestIDKey)),
		)
	}
	Error(ctx, appErr.Status, appErr.Message, label)
}
