package services

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/askboard/askboard/models"
	"github.com/askboard/askboard/utils"
)

// ForumService covers category listing, question CRUD and answers.
type ForumService struct {
	db *gorm.DB
}

// NewForumService creates a ForumService on the given database handle.
func NewForumService(db *gorm.DB) *ForumService {
	return &ForumService{db: db}
}

// CategoryItem is the public shape of a category.
type CategoryItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// QuestionSummary is a question row joined with its author's username.
type QuestionSummary struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	Username  string    `json:"username"`
}

// AnswerItem is an answer joined with its author's username.
type AnswerItem struct {
	ID        uint      `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	Username  string    `json:"username"`
}

// QuestionDetail is a question with its full answer list, oldest answer first.
type QuestionDetail struct {
	ID         uint         `json:"id"`
	CategoryID uint         `json:"categoryId"`
	Title      string       `json:"title"`
	Body       string       `json:"body"`
	CreatedAt  time.Time    `json:"createdAt"`
	Username   string       `json:"username"`
	Answers    []AnswerItem `json:"answers" gorm:"-"`
}

// ListCategories returns all categories ordered by sort order, then name.
func (f *ForumService) ListCategories() ([]CategoryItem, error) {
	var items []CategoryItem
	err := f.db.Model(&models.Category{}).
		Select("id, name").
		Order("sort_order ASC, name ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []CategoryItem{}
	}
	return items, nil
}

// ListQuestions returns the questions of one category, newest first.
// An empty category yields an empty slice, not an error.
func (f *ForumService) ListQuestions(categoryID int) ([]QuestionSummary, error) {
	if categoryID <= 0 {
		return nil, validation("categoryId is required")
	}

	var items []QuestionSummary
	err := f.db.Model(&models.Question{}).
		Select("questions.id, questions.title, questions.body, questions.created_at, users.username").
		Joins("JOIN users ON users.id = questions.user_id").
		Where("questions.category_id = ?", categoryID).
		Order("questions.created_at DESC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []QuestionSummary{}
	}
	return items, nil
}

// CreateQuestion validates and persists a question for the authenticated author.
func (f *ForumService) CreateQuestion(author utils.SessionUser, categoryID int, title, body string) (uint, error) {
	if categoryID <= 0 {
		return 0, validation("categoryId is required")
	}
	title = strings.TrimSpace(utils.Sanitize(title))
	body = strings.TrimSpace(utils.Sanitize(body))
	// Character minimums, not byte minimums
	if utf8.RuneCountInString(title) < 3 {
		return 0, validation("Title must be at least 3 chars")
	}
	if utf8.RuneCountInString(body) < 3 {
		return 0, validation("Body must be at least 3 chars")
	}

	var category models.Category
	if err := f.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, validation("Unknown category")
		}
		return 0, err
	}

	question := models.Question{
		CategoryID: uint(categoryID),
		UserID:     author.ID,
		Title:      title,
		Body:       body,
	}
	if err := f.db.Create(&question).Error; err != nil {
		return 0, err
	}
	return question.ID, nil
}

// GetQuestion returns one question with its answers ordered oldest first.
func (f *ForumService) GetQuestion(id int) (QuestionDetail, error) {
	if id <= 0 {
		return QuestionDetail{}, validation("Invalid id")
	}

	var detail QuestionDetail
	err := f.db.Model(&models.Question{}).
		Select("questions.id, questions.category_id, questions.title, questions.body, questions.created_at, users.username").
		Joins("JOIN users ON users.id = questions.user_id").
		Where("questions.id = ?", id).
		Scan(&detail).Error
	if err != nil {
		return QuestionDetail{}, err
	}
	if detail.ID == 0 {
		return QuestionDetail{}, ErrNotFound
	}

	var answers []models.Answer
	if err := f.db.Where("question_id = ?", id).Order("created_at ASC").Find(&answers).Error; err != nil {
		return QuestionDetail{}, err
	}

	detail.Answers = make([]AnswerItem, 0, len(answers))
	if len(answers) > 0 {
		var userIDs []uint
		for _, a := range answers {
			userIDs = append(userIDs, a.UserID)
		}
		userIDs = utils.UniqueUint(userIDs)

		var users []models.User
		if err := f.db.Find(&users, userIDs).Error; err != nil {
			return QuestionDetail{}, err
		}
		usernames := make(map[uint]string, len(users))
		for _, u := range users {
			usernames[u.ID] = u.Username
		}

		for _, a := range answers {
			detail.Answers = append(detail.Answers, AnswerItem{
				ID:        a.ID,
				Body:      a.Body,
				CreatedAt: a.CreatedAt,
				Username:  usernames[a.UserID],
			})
		}
	}

	return detail, nil
}

// AddAnswer validates and persists an answer by the authenticated author.
// The target question must exist or ErrNotFound is returned.
func (f *ForumService) AddAnswer(author utils.SessionUser, questionID int, body string) (uint, error) {
	if questionID <= 0 {
		return 0, validation("Invalid id")
	}
	body = strings.TrimSpace(utils.Sanitize(body))
	if body == "" {
		return 0, validation("Answer body required")
	}

	var question models.Question
	if err := f.db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	answer := models.Answer{
		QuestionID: uint(questionID),
		UserID:     author.ID,
		Body:       body,
	}
	if err := f.db.Create(&answer).Error; err != nil {
		return 0, err
	}
	return answer.ID, nil
}
