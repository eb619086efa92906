package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cloneoverflow/backend/internal/config"
	"github.com/cloneoverflow/backend/internal/handlers"
	"github.com/cloneoverflow/backend/internal/repo"
	"github.com/cloneoverflow/backend/internal/security"
	"github.com/cloneoverflow/backend/internal/service"
	"github.com/cloneoverflow/backend/internal/tokens"
)

type testServer struct {
	E     *echo.Echo
	DB    *gorm.DB
	Clock *time.Time
}

func newTestServer(t *testing.T) *testServer {
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
	tagRepo := &repo.TagRepo{DB: db}

	e := echo.New()
	Register(e, &Deps{
		DB:     db,
		Issuer: issuer,
		AuthHandler: &handlers.AuthHandler{
			Auth: &service.AuthService{Users: userRepo, Issuer: issuer, Sanitizer: sanitizer},
		},
		UserHandler: &handlers.UserHandler{
			Users: &service.UserService{Users: userRepo, Questions: questionRepo, Answers: answerRepo, Sanitizer: sanitizer},
		},
		QuestionHandler: &handlers.QuestionHandler{
			Questions: &service.QuestionService{Questions: questionRepo, Sanitizer: sanitizer},
		},
		AnswerHandler: &handlers.AnswerHandler{
			Answers: &service.AnswerService{Answers: answerRepo, Questions: questionRepo, Sanitizer: sanitizer},
		},
		TagHandler: &handlers.TagHandler{Tags: tagRepo},
	})

	return &testServer{E: e, DB: db, Clock: &clock}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.E.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) signup(t *testing.T, email, username string) (userID, access, refresh string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"email":    email,
		"password": "password",
		"name":     "Test User",
		"username": username,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.User.ID, resp.AccessToken, resp.RefreshToken
}

func errorList(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var payload struct {
		Error []string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload.Error
}

func TestSignupAndLoginFlow(t *testing.T) {
	s := newTestServer(t)
	userID, access, refresh := s.signup(t, "alice@example.com", "alice")
	require.NotEmpty(t, userID)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "password",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, userID, resp.User.ID)
	require.NotEmpty(t, resp.AccessToken)

	cookies := rec.Result().Cookies()
	names := make([]string, len(cookies))
	for i, c := range cookies {
		names[i] = c.Name
	}
	require.Contains(t, names, "accessToken")
	require.Contains(t, names, "refreshToken")
}

func TestLoginBadCredentials(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "alice@example.com", "alice")

	rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, []string{"Invalid email or password"}, errorList(t, rec))
}

func TestSignupConflicts(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "alice@example.com", "alice")

	rec := s.do(t, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"email":    "other@example.com",
		"password": "password",
		"name":     "Other",
		"username": "alice",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, []string{"Username already exists"}, errorList(t, rec))

	rec = s.do(t, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"email":    "alice@example.com",
		"password": "password",
		"name":     "Other",
		"username": "alice2",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignupValidation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"email":    "not-an-email",
		"password": "pw",
		"name":     "X",
		"username": "xy",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotEmpty(t, errorList(t, rec))
}

func TestProtectedRouteGate(t *testing.T) {
	s := newTestServer(t)
	_, access, _ := s.signup(t, "alice@example.com", "alice")

	rec := s.do(t, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/auth/me", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/auth/me", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Expired access tokens are rejected by the gate.
	*s.Clock = s.Clock.Add(tokens.AccessTTL + time.Second)
	rec = s.do(t, http.MethodGet, "/api/auth/me", access, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshEndpoint(t *testing.T) {
	s := newTestServer(t)
	_, _, refresh := s.signup(t, "alice@example.com", "alice")

	rec := s.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]any{})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]any{"refresh_token": "garbage"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]any{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)

	// An expired refresh token is forbidden, not unauthorized.
	*s.Clock = s.Clock.Add(tokens.RefreshTTL + time.Second)
	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]any{"refresh_token": refresh})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestChangePasswordEndpoint(t *testing.T) {
	s := newTestServer(t)
	_, access, _ := s.signup(t, "alice@example.com", "alice")

	rec := s.do(t, http.MethodPost, "/api/auth/change-password", access, map[string]any{
		"oldPassword": "wrong",
		"newPassword": "newpassword",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/change-password", access, map[string]any{
		"oldPassword": "password",
		"newPassword": "newpassword",
	})
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteDistinguishesForbiddenFromBadBody(t *testing.T) {
	s := newTestServer(t)
	aliceID, aliceAccess, _ := s.signup(t, "alice@example.com", "alice")
	bobID, _, _ := s.signup(t, "bob@example.com", "bob")

	// Acting as alice against bob's path with bob's email: forbidden.
	rec := s.do(t, http.MethodDelete, "/api/users/"+bobID, aliceAccess, map[string]any{
		"email":    "bob@example.com",
		"password": "password",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Acting as alice against bob's path with her own email: bad body.
	rec = s.do(t, http.MethodDelete, "/api/users/"+bobID, aliceAccess, map[string]any{
		"email":    "alice@example.com",
		"password": "password",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, []string{"Invalid user id"}, errorList(t, rec))

	rec = s.do(t, http.MethodDelete, "/api/users/"+aliceID, aliceAccess, map[string]any{
		"email":    "alice@example.com",
		"password": "password",
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/users/"+aliceID, "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuestionEndpoints(t *testing.T) {
	s := newTestServer(t)
	_, access, _ := s.signup(t, "alice@example.com", "alice")

	rec := s.do(t, http.MethodPost, "/api/questions", "", map[string]any{
		"title": "no token", "text": "text",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/questions", access, map[string]any{
		"title": "How to test echo handlers",
		"text":  "details",
		"tags":  []string{"go", "echo"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var question struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &question))

	rec = s.do(t, http.MethodGet, "/api/questions/"+question.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/tags?name=go", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var tagsResp struct {
		Data []struct {
			Name      string `json:"name"`
			Questions int64  `json:"questions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tagsResp))
	require.Len(t, tagsResp.Data, 1)
	require.Equal(t, "go", tagsResp.Data[0].Name)
	require.EqualValues(t, 1, tagsResp.Data[0].Questions)
}
