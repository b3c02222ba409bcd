package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPolicy(t *testing.T) {
	c := NewChecker(nil)

	assert.True(t, c.Has("hr", "employees:manage"))
	assert.True(t, c.Has("hr", "mailings:manage"))
	assert.False(t, c.Has("hr", "staff:manage"))

	// admin's wildcard covers everything, including perms hr never sees
	assert.True(t, c.Has("admin", "staff:manage"))
	assert.True(t, c.Has("admin", "employees:list"))

	assert.False(t, c.Has("", "employees:list"))
	assert.False(t, c.Has("intern", "employees:list"))
}

func TestPrefixWildcard(t *testing.T) {
	c := NewChecker(map[string][]string{"auditor": {"attempts:*"}})

	assert.True(t, c.Has("auditor", "attempts:view"))
	assert.False(t, c.Has("auditor", "employees:list"))
}

func TestAny(t *testing.T) {
	c := NewChecker(nil)

	assert.True(t, c.Any("hr", "staff:manage", "attempts:view"))
	assert.False(t, c.Any("hr", "staff:manage"))
}

func TestRequireMiddleware(t *testing.T) {
	h := Require("employees:manage")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		role string
		want int
	}{
		{"hr", http.StatusOK},
		{"admin", http.StatusOK},
		{"", http.StatusForbidden},
		{"intern", http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.role != "" {
			req = req.WithContext(WithRole(req.Context(), tc.role))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tc.want, rec.Code, "role %q", tc.role)
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithSubject(WithRole(context.Background(), "hr"), "maria")
	assert.Equal(t, "hr", RoleFromContext(ctx))
	assert.Equal(t, "maria", SubjectFromContext(ctx))
}
