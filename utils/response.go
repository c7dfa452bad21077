package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error writes the uniform failure body {"error": message}.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}

// ServerError hides internal failures behind a generic message. The cause is
// logged server-side only.
func ServerError(ctx *gin.Context, err error) {
	if err != nil && Logger != nil {
		Logger.Error("request failed",
			zap.String("path", ctx.FullPath()),
			zap.Error(err),
		)
	}
	Error(ctx, http.StatusInternalServerError, "Server error")
}
