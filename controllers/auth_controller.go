package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/askboard/askboard/config"
	"github.com/askboard/askboard/middleware"
	"github.com/askboard/askboard/services"
	"github.com/askboard/askboard/utils"
)

// AuthController handles registration, login and the session cookie lifecycle.
type AuthController struct {
	auth *services.AuthService
}

// NewAuthController creates an AuthController.
func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register handles local account registration.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username        string `json:"username"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
		AcceptedTerms   bool   `json:"acceptedTerms"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, token, err := a.auth.Register(services.RegisterInput{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		AcceptedTerms:   req.AcceptedTerms,
	})
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	a.setSessionCookie(ctx, token)
	ctx.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login verifies credentials and opens a session.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, token, err := a.auth.Login(req.Username, req.Password)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	a.setSessionCookie(ctx, token)
	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout destroys the session and expires the cookie. Always succeeds.
func (a *AuthController) Logout(ctx *gin.Context) {
	a.auth.Logout(middleware.SessionToken(ctx))
	a.clearSessionCookie(ctx)
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me returns the current user snapshot, or null when unauthenticated.
func (a *AuthController) Me(ctx *gin.Context) {
	user, ok := a.auth.CurrentUser(middleware.SessionToken(ctx))
	if !ok {
		ctx.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

func (a *AuthController) setSessionCookie(ctx *gin.Context, token string) {
	cfg := config.Get()
	maxAge := int((time.Duration(cfg.SessionTTLHours) * time.Hour).Seconds())
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.SessionCookieName, token, maxAge, "/", "", cfg.SessionSecure, true)
}

func (a *AuthController) clearSessionCookie(ctx *gin.Context) {
	cfg := config.Get()
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.SessionCookieName, "", -1, "/", "", cfg.SessionSecure, true)
}
