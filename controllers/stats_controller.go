package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/askboard/askboard/models"
)

// StatsController provides aggregate forum statistics.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns entity counts for the forum. Counts that fail to load
// report zero instead of failing the whole endpoint.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var userCount int64
	var questionCount int64
	var answerCount int64
	var categoryCount int64

	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		userCount = 0
	}
	if err := s.db.Model(&models.Question{}).Count(&questionCount).Error; err != nil {
		questionCount = 0
	}
	if err := s.db.Model(&models.Answer{}).Count(&answerCount).Error; err != nil {
		answerCount = 0
	}
	if err := s.db.Model(&models.Category{}).Count(&categoryCount).Error; err != nil {
		categoryCount = 0
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user_count":     userCount,
		"question_count": questionCount,
		"answer_count":   answerCount,
		"category_count": categoryCount,
	})
}
