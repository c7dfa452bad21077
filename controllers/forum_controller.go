package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/askboard/askboard/middleware"
	"github.com/askboard/askboard/services"
	"github.com/askboard/askboard/utils"
)

// ForumController exposes categories, questions and answers over HTTP.
type ForumController struct {
	forum *services.ForumService
}

// NewForumController creates a ForumController.
func NewForumController(forum *services.ForumService) *ForumController {
	return &ForumController{forum: forum}
}

// ListCategories returns all categories in display order. Public.
func (f *ForumController) ListCategories(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes("cache:categories"); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	categories, err := f.forum.ListCategories()
	if err != nil {
		utils.ServerError(ctx, err)
		return
	}

	payload := gin.H{"categories": categories}
	if b, err := json.Marshal(payload); err == nil {
		utils.CacheSetBytes("cache:categories", b, 0)
	}
	ctx.JSON(http.StatusOK, payload)
}

// ListQuestions returns the questions of one category, newest first. Public.
func (f *ForumController) ListQuestions(ctx *gin.Context) {
	categoryID, _ := strconv.Atoi(strings.TrimSpace(ctx.Query("categoryId")))

	cacheKey := "cache:questions:list:cat=" + strconv.Itoa(categoryID)
	if categoryID > 0 {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	questions, err := f.forum.ListQuestions(categoryID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	payload := gin.H{"questions": questions}
	if b, err := json.Marshal(payload); err == nil {
		utils.CacheSetBytes(cacheKey, b, 0)
	}
	ctx.JSON(http.StatusOK, payload)
}

// CreateQuestion files a new question for the authenticated user.
func (f *ForumController) CreateQuestion(ctx *gin.Context) {
	author, ok := middleware.SessionUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "Not logged in")
		return
	}

	var req struct {
		CategoryID int    `json:"categoryId"`
		Title      string `json:"title"`
		Body       string `json:"body"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "Invalid request payload")
		return
	}

	id, err := f.forum.CreateQuestion(author, req.CategoryID, req.Title, req.Body)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:questions:list:cat=" + strconv.Itoa(req.CategoryID))
	ctx.JSON(http.StatusCreated, gin.H{"id": id})
}

// GetQuestion returns one question with its answers, oldest first. Public.
func (f *ForumController) GetQuestion(ctx *gin.Context) {
	id, _ := strconv.Atoi(ctx.Param("id"))

	cacheKey := "cache:question:detail:" + strconv.Itoa(id)
	if id > 0 {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	question, err := f.forum.GetQuestion(id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	payload := gin.H{"question": question}
	if b, err := json.Marshal(payload); err == nil {
		utils.CacheSetBytes(cacheKey, b, 0)
	}
	ctx.JSON(http.StatusOK, payload)
}

// AddAnswer appends an answer to a question for the authenticated user.
func (f *ForumController) AddAnswer(ctx *gin.Context) {
	author, ok := middleware.SessionUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "Not logged in")
		return
	}

	questionID, _ := strconv.Atoi(ctx.Param("id"))

	var req struct {
		Body string `json:"body"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "Invalid request payload")
		return
	}

	id, err := f.forum.AddAnswer(author, questionID, req.Body)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:question:detail:" + strconv.Itoa(questionID))
	ctx.JSON(http.StatusCreated, gin.H{"id": id})
}
