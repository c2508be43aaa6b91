package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	authmw "user-backend/internal/middleware/auth"
)

func (env *testEnv) signup(t *testing.T, username, email, password string, isAdmin bool) uint {
	rec := env.do(t, http.MethodPost, "/api/user", map[string]interface{}{
		"username": username,
		"email":    email,
		"password": password,
		"is_admin": isAdmin,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	return created.ID
}

func (env *testEnv) login(t *testing.T, identity, password string) *http.Cookie {
	rec := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"identity": identity,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	return cookieByName(t, rec, authmw.AccessCookie)
}

func TestCreateUserValidation(t *testing.T) {
	env := newTestEnv(t)

	// username too short
	rec := env.do(t, http.MethodPost, "/api/user", map[string]interface{}{
		"username": "al", "email": "al@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// bad email
	rec = env.do(t, http.MethodPost, "/api/user", map[string]interface{}{
		"username": "alice", "email": "not-an-email", "password": "secret1",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// password too short
	rec = env.do(t, http.MethodPost, "/api/user", map[string]interface{}{
		"username": "alice", "email": "alice@x.com", "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListUsersAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "admin", "admin@x.com", "secret1", true)
	env.signup(t, "alice", "alice@x.com", "secret1", false)

	rec := env.do(t, http.MethodGet, "/api/user", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	alice := env.login(t, "alice", "secret1")
	rec = env.do(t, http.MethodGet, "/api/user", nil, alice)
	require.Equal(t, http.StatusForbidden, rec.Code)

	admin := env.login(t, "admin", "secret1")
	rec = env.do(t, http.MethodGet, "/api/user?page=1&limit=10", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Data []json.RawMessage `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Data, 2)
	require.EqualValues(t, 2, page.Meta.Total)
}

func TestAdminOrOwnerAccess(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "admin", "admin@x.com", "secret1", true)
	aliceID := env.signup(t, "alice", "alice@x.com", "secret1", false)
	bobID := env.signup(t, "bob", "bob@x.com", "secret1", false)

	alice := env.login(t, "alice", "secret1")
	admin := env.login(t, "admin", "secret1")

	// owner reads own record
	rec := env.do(t, http.MethodGet, fmt.Sprintf("/api/user/%d", aliceID), nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)

	// owner cannot read someone else
	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/user/%d", bobID), nil, alice)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// admin reads anyone
	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/user/%d", bobID), nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	// no token at all
	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/user/%d", aliceID), nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPatchUser(t *testing.T) {
	env := newTestEnv(t)
	aliceID := env.signup(t, "alice", "alice@x.com", "secret1", false)
	env.signup(t, "bob", "bob@x.com", "secret1", false)
	alice := env.login(t, "alice", "secret1")

	rec := env.do(t, http.MethodPatch, fmt.Sprintf("/api/user/%d", aliceID), map[string]string{
		"names": "Alice A.",
	}, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Alice A.")

	// conflicting username of a different user
	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/api/user/%d", aliceID), map[string]string{
		"username": "bob",
	}, alice)
	require.Equal(t, http.StatusConflict, rec.Code)

	// invalid payload never reaches the service
	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/api/user/%d", aliceID), map[string]string{
		"email": "not-an-email",
	}, alice)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteUserEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "admin", "admin@x.com", "secret1", true)
	aliceID := env.signup(t, "alice", "alice@x.com", "secret1", false)
	admin := env.login(t, "admin", "secret1")

	rec := env.do(t, http.MethodDelete, fmt.Sprintf("/api/user/%d", aliceID), nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "alice")

	// gone now
	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/user/%d", aliceID), nil, admin)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchUnconfigured(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "admin", "admin@x.com", "secret1", true)
	admin := env.login(t, "admin", "secret1")

	rec := env.do(t, http.MethodGet, "/api/user/search?q=alice", nil, admin)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
