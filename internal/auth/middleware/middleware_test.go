package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/welcomedesk/welcomedesk/internal/hr"
	"github.com/welcomedesk/welcomedesk/internal/rbac"
)

type fakeStaff map[string]hr.StaffAccount

func (f fakeStaff) GetStaff(_ context.Context, username string) (hr.StaffAccount, error) {
	a, ok := f[username]
	if !ok {
		return hr.StaffAccount{}, hr.ErrNotFound
	}
	return a, nil
}

func hash(t *testing.T, pw string) string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(b)
}

func login(t *testing.T, h http.HandlerFunc, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLoginAndJWTRoundTrip(t *testing.T) {
	svc := NewAuthService("test-secret")
	staff := fakeStaff{"maria": {Username: "maria", PassHash: hash(t, "pw1"), Role: "hr"}}
	h := LoginHandler(svc, staff, BootstrapAdmin{})

	rec := login(t, h, "maria", "pw1")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.AccessToken)

	// the token passes the middleware and lands subject + role in context
	var gotSub, gotRole string
	protected := JWTMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = rbac.SubjectFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/employees", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	rec2 := httptest.NewRecorder()
	protected.ServeHTTP(rec2, req)

	assert.Equal(t, http.StatusOK, rec2.Code)
	assert.Equal(t, "maria", gotSub)
	assert.Equal(t, "hr", gotRole)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewAuthService("test-secret")
	staff := fakeStaff{"maria": {Username: "maria", PassHash: hash(t, "pw1"), Role: "hr"}}

	rec := login(t, LoginHandler(svc, staff, BootstrapAdmin{}), "maria", "nope")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginBootstrapAdmin(t *testing.T) {
	svc := NewAuthService("test-secret")
	boot := BootstrapAdmin{Username: "admin", PassHash: hash(t, "root-pw")}
	h := LoginHandler(svc, fakeStaff{}, boot)

	rec := login(t, h, "admin", "root-pw")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	claims, err := svc.Parse(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)

	rec = login(t, h, "ghost", "root-pw")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareRejects(t *testing.T) {
	svc := NewAuthService("test-secret")
	protected := JWTMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// a token signed with a different secret is refused
	other := NewAuthService("other-secret")
	tok, err := other.IssueJWT("maria", "hr")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
