package services

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/askboard/askboard/utils"
)

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err, "failed to create sqlmock")

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to open gorm")
	return gdb, mock, sqlDB
}

func newTestAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock, *sql.DB, *utils.MemorySessionStore) {
	t.Helper()
	gdb, mock, sqlDB := newTestDB(t)
	sessions := utils.NewMemorySessionStore()
	return NewAuthService(gdb, sessions, time.Hour), mock, sqlDB, sessions
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Username:        "alice1",
		Password:        "abcd1234",
		ConfirmPassword: "abcd1234",
		AcceptedTerms:   true,
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RegisterInput)
		wantMsg string
	}{
		{"empty username", func(in *RegisterInput) { in.Username = "   " }, "Username required"},
		{"short username", func(in *RegisterInput) { in.Username = "ab" }, "Username must be at least 3 chars"},
		{"short multibyte username", func(in *RegisterInput) { in.Username = "ñé" }, "Username must be at least 3 chars"},
		{"bad username chars", func(in *RegisterInput) { in.Username = "bad name!" }, "Username can use letters/numbers/_"},
		{"empty password", func(in *RegisterInput) { in.Password = "" }, "Password required"},
		{"short password", func(in *RegisterInput) { in.Password = "short1"; in.ConfirmPassword = "short1" }, "Password must be at least 8 chars"},
		{"short multibyte password", func(in *RegisterInput) { in.Password = "ñéñéñ1"; in.ConfirmPassword = "ñéñéñ1" }, "Password must be at least 8 chars"},
		{"password without digit", func(in *RegisterInput) { in.Password = "longenough"; in.ConfirmPassword = "longenough" }, "Password must contain a number"},
		{"confirm mismatch", func(in *RegisterInput) { in.ConfirmPassword = "abcd12345" }, "Passwords do not match"},
		{"terms not accepted", func(in *RegisterInput) { in.AcceptedTerms = false }, "You must accept the terms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock, sqlDB, _ := newTestAuthService(t)
			defer sqlDB.Close()

			in := validRegisterInput()
			tt.mutate(&in)

			_, _, err := svc.Register(in)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantMsg, vErr.Message)
			// validation fails before any store access
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegister_Success(t *testing.T) {
	svc, mock, sqlDB, sessions := newTestAuthService(t)
	defer sqlDB.Close()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	in := validRegisterInput()
	in.Username = "  alice1  " // username is trimmed before persisting

	user, token, err := svc.Register(in)
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	assert.Equal(t, "alice1", user.Username)
	require.NotEmpty(t, token)

	got, ok := sessions.Get(token)
	require.True(t, ok, "register must establish a session")
	assert.Equal(t, user, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_Conflict(t *testing.T) {
	svc, mock, sqlDB, _ := newTestAuthService(t)
	defer sqlDB.Close()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}).
			AddRow(7, "alice1", "x"))

	_, _, err := svc.Register(validRegisterInput())
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_ConcurrentDuplicate(t *testing.T) {
	svc, mock, sqlDB, _ := newTestAuthService(t)
	defer sqlDB.Close()

	// Pre-check sees no user, but the unique index rejects the insert because
	// a concurrent registration won the race.
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice1'"})
	mock.ExpectRollback()

	_, _, err := svc.Register(validRegisterInput())
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_MissingFields(t *testing.T) {
	svc, _, sqlDB, _ := newTestAuthService(t)
	defer sqlDB.Close()

	for _, creds := range [][2]string{{"", "abcd1234"}, {"alice1", ""}, {"", ""}} {
		_, _, err := svc.Login(creds[0], creds[1])
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "Username and password required", vErr.Message)
	}
}

func TestLogin_Success(t *testing.T) {
	svc, mock, sqlDB, sessions := newTestAuthService(t)
	defer sqlDB.Close()

	hash, err := utils.HashPassword("abcd1234")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}).
			AddRow(3, "alice1", hash))

	user, token, err := svc.Login("alice1", "abcd1234")
	require.NoError(t, err)
	assert.Equal(t, uint(3), user.ID)
	assert.Equal(t, "alice1", user.Username)

	got, ok := sessions.Get(token)
	require.True(t, ok)
	assert.Equal(t, user, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_NoEnumerationSignal(t *testing.T) {
	// Wrong password and unknown username must be indistinguishable.
	hash, err := utils.HashPassword("abcd1234")
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		svc, mock, sqlDB, _ := newTestAuthService(t)
		defer sqlDB.Close()

		mock.ExpectQuery("SELECT .* FROM `users`").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}).
				AddRow(3, "alice1", hash))

		_, _, err := svc.Login("alice1", "wrong9999")
		assert.ErrorIs(t, err, ErrBadCredentials)
	})

	t.Run("unknown username", func(t *testing.T) {
		svc, mock, sqlDB, _ := newTestAuthService(t)
		defer sqlDB.Close()

		mock.ExpectQuery("SELECT .* FROM `users`").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}))

		_, _, err := svc.Login("nobody", "abcd1234")
		assert.ErrorIs(t, err, ErrBadCredentials)
	})
}

func TestLogin_StoreFailureIsNotAuthError(t *testing.T) {
	svc, mock, sqlDB, _ := newTestAuthService(t)
	defer sqlDB.Close()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnError(errors.New("connection reset"))

	_, _, err := svc.Login("alice1", "abcd1234")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBadCredentials)
}

func TestLogoutAndCurrentUser(t *testing.T) {
	svc, _, sqlDB, sessions := newTestAuthService(t)
	defer sqlDB.Close()

	token, err := sessions.Create(utils.SessionUser{ID: 5, Username: "bob_2"}, time.Hour)
	require.NoError(t, err)

	user, ok := svc.CurrentUser(token)
	require.True(t, ok)
	assert.Equal(t, "bob_2", user.Username)

	svc.Logout(token)
	_, ok = svc.CurrentUser(token)
	assert.False(t, ok)

	// destroying an absent session is not an error
	svc.Logout(token)
	svc.Logout("")

	_, ok = svc.CurrentUser("")
	assert.False(t, ok)
}
