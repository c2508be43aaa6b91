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

	authmw "user-backend/internal/middleware/auth"
	"user-backend/internal/models"
	"user-backend/internal/mykafka"
	"user-backend/internal/repo"
	"user-backend/internal/service"
)

var testSecret = []byte("test-secret")

type testEnv struct {
	E    *echo.Echo
	Repo *repo.GormRepo
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}))

	gormRepo := repo.New(db)
	producer := mykafka.NewProducer("")

	authSvc := &service.AuthService{Repo: gormRepo, JWTSecret: testSecret, AccessTTL: time.Minute}
	userSvc := &service.UserService{Repo: gormRepo}

	e := echo.New()
	Register(e, &Deps{
		Guard:         authmw.NewGuard(testSecret),
		AuthHandler:   &AuthHandler{Svc: authSvc, Producer: producer},
		UserHandler:   &UserHandler{Svc: userSvc, Producer: producer},
		FilesHandler:  &FilesHandler{},
		SearchHandler: &SearchHandler{Index: "users"},
	})

	return &testEnv{E: e, Repo: gormRepo}
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func cookieByName(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

// The end-to-end scenario: signup, duplicate email, good login, bad login.
func TestSignupAndLoginScenario(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/user", map[string]interface{}{
		"username": "alice",
		"email":    "alice@x.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotContains(t, rec.Body.String(), "password")
	require.NotContains(t, rec.Body.String(), "secret1")

	rec = env.do(t, http.MethodPost, "/api/user", map[string]interface{}{
		"username": "alice2",
		"email":    "alice@x.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"identity": "alice",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	access := cookieByName(t, rec, authmw.AccessCookie)
	refresh := cookieByName(t, rec, authmw.RefreshCookie)
	require.True(t, access.HttpOnly)
	require.True(t, refresh.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, access.SameSite)
	require.NotEmpty(t, access.Value)
	require.NotEmpty(t, refresh.Value)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Login successful", resp["message"])
	user := resp["user"].(map[string]interface{})
	require.Equal(t, "alice", user["username"])

	rec = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"identity": "alice",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"identity": "alice"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshEndpointRotates(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/user", map[string]interface{}{
		"username": "alice", "email": "alice@x.com", "password": "secret1",
	})
	login := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"identity": "alice", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, login.Code)
	oldRefresh := cookieByName(t, login, authmw.RefreshCookie)

	rec := env.do(t, http.MethodPost, "/api/auth/refresh", nil, oldRefresh)
	require.Equal(t, http.StatusOK, rec.Code)
	newRefresh := cookieByName(t, rec, authmw.RefreshCookie)
	require.NotEqual(t, oldRefresh.Value, newRefresh.Value)

	// the consumed cookie is single-use
	rec = env.do(t, http.MethodPost, "/api/auth/refresh", nil, oldRefresh)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshWithoutCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/refresh", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutIsIdempotentAndClearsCookies(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/user", map[string]interface{}{
		"username": "alice", "email": "alice@x.com", "password": "secret1",
	})
	login := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"identity": "alice", "password": "secret1",
	})
	refresh := cookieByName(t, login, authmw.RefreshCookie)

	rec := env.do(t, http.MethodPost, "/api/auth/logout", nil, refresh)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, -1, cookieByName(t, rec, authmw.AccessCookie).MaxAge)
	require.Equal(t, -1, cookieByName(t, rec, authmw.RefreshCookie).MaxAge)

	// logging out again, or with no cookie at all, is still a success
	rec = env.do(t, http.MethodPost, "/api/auth/logout", nil, refresh)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// the revoked refresh token must not mint new sessions
	rec = env.do(t, http.MethodPost, "/api/auth/refresh", nil, refresh)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/auth/profile", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	env.do(t, http.MethodPost, "/api/user", map[string]interface{}{
		"username": "alice", "email": "alice@x.com", "password": "secret1",
	})
	login := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"identity": "alice", "password": "secret1",
	})
	access := cookieByName(t, login, authmw.AccessCookie)

	rec = env.do(t, http.MethodGet, "/api/auth/profile", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)

	var identity map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &identity))
	require.EqualValues(t, 1, identity["user_id"])
	require.Equal(t, false, identity["is_admin"])
}

func TestFilesEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/files", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	env.do(t, http.MethodPost, "/api/user", map[string]interface{}{
		"username": "alice", "email": "alice@x.com", "password": "secret1",
	})
	login := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"identity": "alice", "password": "secret1",
	})
	access := cookieByName(t, login, authmw.AccessCookie)

	rec = env.do(t, http.MethodGet, "/api/files", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Documents")
	require.Contains(t, rec.Body.String(), "Symphony_No_5.mp3")
}
