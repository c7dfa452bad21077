package services

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/askboard/askboard/models"
	"github.com/askboard/askboard/utils"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
var digitPattern = regexp.MustCompile(`[0-9]`)

// AuthService covers registration, credential verification and the session
// lifecycle. It never exposes password hashes.
type AuthService struct {
	db         *gorm.DB
	sessions   utils.SessionStore
	sessionTTL time.Duration
}

// NewAuthService creates an AuthService bound to the given store and session TTL.
func NewAuthService(db *gorm.DB, sessions utils.SessionStore, sessionTTL time.Duration) *AuthService {
	return &AuthService{db: db, sessions: sessions, sessionTTL: sessionTTL}
}

// RegisterInput carries the raw registration fields as submitted.
type RegisterInput struct {
	Username        string
	Password        string
	ConfirmPassword string
	AcceptedTerms   bool
}

// Register validates the input, persists the new user, and opens a session.
// It returns the public identity and the session token for the cookie.
func (s *AuthService) Register(input RegisterInput) (utils.SessionUser, string, error) {
	username := strings.TrimSpace(input.Username)

	if username == "" {
		return utils.SessionUser{}, "", validation("Username required")
	}
	if utf8.RuneCountInString(username) < 3 {
		return utils.SessionUser{}, "", validation("Username must be at least 3 chars")
	}
	if !usernamePattern.MatchString(username) {
		return utils.SessionUser{}, "", validation("Username can use letters/numbers/_")
	}
	if input.Password == "" {
		return utils.SessionUser{}, "", validation("Password required")
	}
	// Minimums count characters, not bytes; multibyte passwords must not
	// sneak past on encoded length.
	if utf8.RuneCountInString(input.Password) < 8 {
		return utils.SessionUser{}, "", validation("Password must be at least 8 chars")
	}
	if !digitPattern.MatchString(input.Password) {
		return utils.SessionUser{}, "", validation("Password must contain a number")
	}
	if input.Password != input.ConfirmPassword {
		return utils.SessionUser{}, "", validation("Passwords do not match")
	}
	if !input.AcceptedTerms {
		return utils.SessionUser{}, "", validation("You must accept the terms")
	}

	var existing models.User
	err := s.db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return utils.SessionUser{}, "", ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.SessionUser{}, "", err
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return utils.SessionUser{}, "", err
	}

	user := models.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.db.Create(&user).Error; err != nil {
		// The unique index is the authority; a concurrent insert can still
		// win the race past the pre-check above.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.SessionUser{}, "", ErrUsernameTaken
		}
		return utils.SessionUser{}, "", err
	}

	return s.openSession(user)
}

// Login verifies credentials and opens a session. Unknown usernames and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(username, password string) (utils.SessionUser, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return utils.SessionUser{}, "", validation("Username and password required")
	}

	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SessionUser{}, "", ErrBadCredentials
		}
		return utils.SessionUser{}, "", err
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return utils.SessionUser{}, "", ErrBadCredentials
	}

	return s.openSession(user)
}

// Logout destroys the session. Destroying an absent session is a no-op.
func (s *AuthService) Logout(token string) {
	if token == "" {
		return
	}
	s.sessions.Destroy(token)
}

// CurrentUser resolves a session token to its user snapshot.
func (s *AuthService) CurrentUser(token string) (utils.SessionUser, bool) {
	if token == "" {
		return utils.SessionUser{}, false
	}
	return s.sessions.Get(token)
}

func (s *AuthService) openSession(user models.User) (utils.SessionUser, string, error) {
	snapshot := utils.SessionUser{ID: user.ID, Username: user.Username}
	token, err := s.sessions.Create(snapshot, s.sessionTTL)
	if err != nil {
		return utils.SessionUser{}, "", err
	}
	return snapshot, token, nil
}
