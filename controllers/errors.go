package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/askboard/askboard/services"
	"github.com/askboard/askboard/utils"
)

// respondServiceError maps a service error kind onto the HTTP status and the
// uniform {"error": ...} body. Unknown errors become an opaque 500.
func respondServiceError(ctx *gin.Context, err error) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		utils.Error(ctx, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, services.ErrBadCredentials):
		utils.Error(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		utils.Error(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, err.Error())
	default:
		utils.ServerError(ctx, err)
	}
}
