package lead_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/heliocrm/api-leads/internal/auth"
	"github.com/heliocrm/api-leads/internal/cache"
	"github.com/heliocrm/api-leads/internal/events"
	"github.com/heliocrm/api-leads/internal/lead"
	"github.com/heliocrm/api-leads/internal/testutil"
	"github.com/heliocrm/api-leads/internal/user"
)

// asUser wires a handler func behind a context carrying the given user's
// identity, standing in for the auth middleware.
func asUser(u *user.User, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), auth.CtxUserID, u.ID)
		ctx = context.WithValue(ctx, auth.CtxUserName, u.Name)
		ctx = context.WithValue(ctx, auth.CtxRole, string(u.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newHandler(t *testing.T) (*lead.Handler, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	svc := lead.NewService(db, cache.NewMemory(), events.Noop{}, nil)
	return lead.NewHandler(db, svc), db
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandlerCreate(t *testing.T) {
	h, db := newHandler(t)
	sales := testutil.NewUser(t, db, user.RoleSalesman, "Marta")

	r := mux.NewRouter()
	r.Handle("/api/leads", asUser(sales, h.Create)).Methods("POST")

	rr := doJSON(t, r, "POST", "/api/leads", map[string]any{
		"name":         "Jon Vale",
		"phone":        "5551112222",
		"address":      "4 Ridge Rd",
		"propertyType": "residential",
		"likelihood":   "hot",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var created lead.Lead
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, lead.StatusNew, created.Status)
	assert.Equal(t, sales.ID, created.SalesmanID)
}

func TestHandlerCreateSalesmanOnly(t *testing.T) {
	h, db := newHandler(t)
	sales := testutil.NewUser(t, db, user.RoleSalesman, "Marta")
	op := testutil.NewUser(t, db, user.RoleCallOperator, "Rui")

	gated := auth.RequireRoles(string(user.RoleSalesman))(http.HandlerFunc(h.Create))
	body := map[string]any{
		"name":         "Jon Vale",
		"phone":        "5553334444",
		"address":      "4 Ridge Rd",
		"propertyType": "residential",
		"likelihood":   "hot",
	}

	r := mux.NewRouter()
	r.Handle("/api/leads", asUser(op, gated.ServeHTTP)).Methods("POST")
	rr := doJSON(t, r, "POST", "/api/leads", body)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	r = mux.NewRouter()
	r.Handle("/api/leads", asUser(sales, gated.ServeHTTP)).Methods("POST")
	rr = doJSON(t, r, "POST", "/api/leads", body)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestHandlerCreateValidation(t *testing.T) {
	h, db := newHandler(t)
	sales := testutil.NewUser(t, db, user.RoleSalesman, "Marta")

	r := mux.NewRouter()
	r.Handle("/api/leads", asUser(sales, h.Create)).Methods("POST")

	rr := doJSON(t, r, "POST", "/api/leads", map[string]any{
		"phone":        "5551112222",
		"address":      "4 Ridge Rd",
		"propertyType": "industrial",
		"likelihood":   "hot",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerGetNotFound(t *testing.T) {
	h, db := newHandler(t)
	admin := testutil.NewUser(t, db, user.RoleTeamLead, "Lia")

	r := mux.NewRouter()
	r.Handle("/api/leads/{id}", asUser(admin, h.Get)).Methods("GET")

	rr := doJSON(t, r, "GET", "/api/leads/424242", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, r, "GET", "/api/leads/0", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerUpdateStatus(t *testing.T) {
	h, db := newHandler(t)
	sales := testutil.NewUser(t, db, user.RoleSalesman, "Marta")
	op := testutil.NewUser(t, db, user.RoleCallOperator, "Rui")
	l := testutil.NewLead(t, db, sales)

	r := mux.NewRouter()
	r.Handle("/api/leads/{id}/status", asUser(op, h.UpdateStatus)).Methods("PATCH")
	path := fmt.Sprintf("/api/leads/%d/status", l.ID)

	rr := doJSON(t, r, "PATCH", path, map[string]any{"status": "ringing", "notes": "no answer"})
	require.Equal(t, http.StatusOK, rr.Code)

	var updated lead.Lead
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, lead.StatusRinging, updated.Status)

	rr = doJSON(t, r, "PATCH", path, map[string]any{"status": "completed"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, r, "PATCH", path, map[string]any{"status": "qualified"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerReassign(t *testing.T) {
	h, db := newHandler(t)
	sales := testutil.NewUser(t, db, user.RoleSalesman, "Marta")
	op := testutil.NewUser(t, db, user.RoleCallOperator, "Rui")
	admin := testutil.NewUser(t, db, user.RoleTeamLead, "Lia")
	l := testutil.NewLead(t, db, sales)

	r := mux.NewRouter()
	r.Handle("/api/leads/{id}/operator", asUser(admin, h.Reassign)).Methods("PATCH")
	path := fmt.Sprintf("/api/leads/%d/operator", l.ID)

	rr := doJSON(t, r, "PATCH", path, map[string]any{"operatorId": op.ID})
	require.Equal(t, http.StatusOK, rr.Code)

	var updated lead.Lead
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	require.NotNil(t, updated.CallOperatorID)
	assert.Equal(t, op.ID, *updated.CallOperatorID)

	rr = doJSON(t, r, "PATCH", path, map[string]any{"operatorId": sales.ID})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, r, "PATCH", path, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerBulkAssign(t *testing.T) {
	h, db := newHandler(t)
	sales := testutil.NewUser(t, db, user.RoleSalesman, "Marta")
	op := testutil.NewUser(t, db, user.RoleCallOperator, "Rui")
	admin := testutil.NewUser(t, db, user.RoleTeamLead, "Lia")
	l := testutil.NewLead(t, db, sales)

	r := mux.NewRouter()
	r.Handle("/api/leads/bulk-assign", asUser(admin, h.BulkAssign)).Methods("POST")

	rr := doJSON(t, r, "POST", "/api/leads/bulk-assign", map[string]any{
		"leadIds":    []uint{l.ID, 9999},
		"operatorId": op.ID,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var res lead.BulkResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, []uint{l.ID}, res.Succeeded)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, uint(9999), res.Failed[0].LeadID)
}

func TestHandlerListPagination(t *testing.T) {
	h, db := newHandler(t)
	sales := testutil.NewUser(t, db, user.RoleSalesman, "Marta")
	for i := 0; i < 12; i++ {
		testutil.NewLead(t, db, sales)
	}

	r := mux.NewRouter()
	r.Handle("/api/leads", asUser(sales, h.List)).Methods("GET")

	rr := doJSON(t, r, "GET", "/api/leads?page=1", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var page struct {
		Items      []lead.Lead `json:"items"`
		Page       int         `json:"page"`
		TotalPages int         `json:"totalPages"`
		Total      int         `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Len(t, page.Items, 10)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 12, page.Total)

	rr = doJSON(t, r, "GET", "/api/leads?page=2", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Len(t, page.Items, 2)
}

func TestHandlerMissingIdentity(t *testing.T) {
	h, _ := newHandler(t)

	r := mux.NewRouter()
	r.HandleFunc("/api/leads", h.Create).Methods("POST")

	rr := doJSON(t, r, "POST", "/api/leads", map[string]any{
		"name": "x", "phone": "1", "address": "a",
		"propertyType": "residential", "likelihood": "hot",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
