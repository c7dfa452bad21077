package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/askboard/askboard/utils"
)

const (
	// SessionCookieName is the cookie carrying the opaque session token.
	SessionCookieName = "askboard_session"
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
)

// SessionToken extracts the session token from the request cookie, if any.
func SessionToken(ctx *gin.Context) string {
	token, err := ctx.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return token
}

// AuthRequired ensures the request carries a live session cookie.
func AuthRequired(sessions utils.SessionStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := SessionToken(ctx)
		if token == "" {
			utils.Error(ctx, http.StatusUnauthorized, "Not logged in")
			ctx.Abort()
			return
		}

		user, ok := sessions.Get(token)
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, "Not logged in")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, user.ID)
		ctx.Set(ContextUsernameKey, user.Username)
		ctx.Next()
	}
}

// SessionUser returns the authenticated user snapshot set by AuthRequired.
func SessionUser(ctx *gin.Context) (utils.SessionUser, bool) {
	id, ok := ctx.Get(ContextUserIDKey)
	if !ok {
		return utils.SessionUser{}, false
	}
	userID, ok := id.(uint)
	if !ok {
		return utils.SessionUser{}, false
	}
	return utils.SessionUser{ID: userID, Username: ctx.GetString(ContextUsernameKey)}, true
}
