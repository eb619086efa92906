package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cloneoverflow/backend/internal/config"
	"github.com/cloneoverflow/backend/internal/repo"
	"github.com/cloneoverflow/backend/internal/security"
	"github.com/cloneoverflow/backend/internal/tokens"
)

type testEnv struct {
	DB        *gorm.DB
	Clock     *time.Time
	Issuer    *tokens.Issuer
	Auth      *AuthService
	Users     *UserService
	Questions *QuestionService
	Answers   *AnswerService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := tokens.NewIssuer(tokens.Config{
		Secret: []byte("test-secret"),
		Now:    func() time.Time { return clock },
	})
	sanitizer := security.NewSanitizer()

	userRepo := &repo.UserRepo{DB: db}
	questionRepo := &repo.QuestionRepo{DB: db}
	answerRepo := &repo.AnswerRepo{DB: db}

	return &testEnv{
		DB:        db,
		Clock:     &clock,
		Issuer:    issuer,
		Auth:      &AuthService{Users: userRepo, Issuer: issuer, Sanitizer: sanitizer},
		Users:     &UserService{Users: userRepo, Questions: questionRepo, Answers: answerRepo, Sanitizer: sanitizer},
		Questions: &QuestionService{Questions: questionRepo, Sanitizer: sanitizer},
		Answers:   &AnswerService{Answers: answerRepo, Questions: questionRepo, Sanitizer: sanitizer},
	}
}

func (env *testEnv) signup(t *testing.T, email, username string) *AuthResult {
	t.Helper()
	result, err := env.Auth.Signup(t.Context(), SignupInput{
		Email:    email,
		Password: "password",
		Name:     "Test User",
		Username: username,
		About:    "about me",
	})
	require.NoError(t, err)
	return result
}
