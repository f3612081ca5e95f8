package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heliocrm/api-leads/internal/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := auth.GenerateToken(7, "Rui", "call_operator")
	require.NoError(t, err)

	claims, err := auth.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "Rui", claims.Name)
	assert.Equal(t, "call_operator", claims.Role)
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := auth.ParseAndValidate("not-a-token")
	assert.Error(t, err)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	token, err := auth.GenerateToken(1, "Lia", "team_lead")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "second-secret")
	_, err = auth.ParseAndValidate(token)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	var gotID uint
	var gotRole string
	protected := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = r.Context().Value(auth.CtxUserID).(uint)
		gotRole, _ = r.Context().Value(auth.CtxRole).(string)
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest("GET", "/api/leads", nil)
	rr := httptest.NewRecorder()
	protected.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	token, err := auth.GenerateToken(42, "Rui", "call_operator")
	require.NoError(t, err)

	req = httptest.NewRequest("GET", "/api/leads", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	protected.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, uint(42), gotID)
	assert.Equal(t, "call_operator", gotRole)
}

func TestRequireRoles(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	handler := auth.Middleware(auth.RequireRoles("team_lead", "super_admin")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})))

	operatorToken, err := auth.GenerateToken(1, "Rui", "call_operator")
	require.NoError(t, err)
	adminToken, err := auth.GenerateToken(2, "Lia", "team_lead")
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/leads/bulk-assign", nil)
	req.Header.Set("Authorization", "Bearer "+operatorToken)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	req = httptest.NewRequest("POST", "/api/leads/bulk-assign", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
