package lead

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/heliocrm/api-leads/internal/auth"
	"github.com/heliocrm/api-leads/internal/calllog"
	"github.com/heliocrm/api-leads/internal/user"
)

// Handler encapsulates DB and the lead service
type Handler struct {
	DB       *gorm.DB
	Service  *Service
	validate *validator.Validate
}

func NewHandler(db *gorm.DB, svc *Service) *Handler {
	return &Handler{
		DB:       db,
		Service:  svc,
		validate: validator.New(),
	}
}

func actorFromContext(r *http.Request) (Actor, bool) {
	id, ok := r.Context().Value(auth.CtxUserID).(uint)
	if !ok {
		return Actor{}, false
	}
	name, _ := r.Context().Value(auth.CtxUserName).(string)
	return Actor{ID: id, Name: name}, true
}

func roleFromContext(r *http.Request) user.Role {
	role, _ := r.Context().Value(auth.CtxRole).(string)
	return user.Role(role)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondServiceError maps service errors onto HTTP statuses: NotFound to
// 404, validation-class errors to 400, assignment conflicts to 409,
// everything else to a generic 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, ErrNotFound.Error(), http.StatusNotFound)
	case errors.Is(err, ErrAlreadyAssigned):
		http.Error(w, ErrAlreadyAssigned.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrNotCallOperator),
		errors.Is(err, ErrNotTechnician):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func leadID(r *http.Request) (uint, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		return 0, false
	}
	return uint(id), true
}

// Create handles POST /api/leads
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var req createLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.Service.Create(r.Context(), req.toLead(), actor)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// List handles GET /api/leads?q=...&page=N — scoped by the caller's role.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	list, err := h.Service.ListForUser(r.Context(), actor.ID, roleFromContext(r), r.URL.Query().Get("q"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.respondLeadPage(w, r, list)
}

// ListUnassigned handles GET /api/leads/unassigned
func (h *Handler) ListUnassigned(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListUnassigned(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.respondLeadPage(w, r, list)
}

// TodayActivity handles GET /api/leads/activity/today
func (h *Handler) TodayActivity(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.TodayActivity(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// pagination over the fully-fetched list keeps page boundaries stable across
// roles; page size is the logs' fixed size.
func (h *Handler) respondLeadPage(w http.ResponseWriter, r *http.Request, list []Lead) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"items":      calllog.Paginate(list, page),
		"page":       page,
		"totalPages": calllog.TotalPages(int64(len(list))),
		"total":      len(list),
	})
}

// Get handles GET /api/leads/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	l, err := h.Service.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, l)
}

// Update handles PUT /api/leads/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.Service.Update(r.Context(), id, req.toLead())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// UpdateStatus handles PATCH /api/leads/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	id, ok := leadID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.Service.UpdateStatus(r.Context(), id, Status(req.Status), req.Notes, actor)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Reassign handles PATCH /api/leads/{id}/operator
func (h *Handler) Reassign(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req reassignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "the 'operatorId' field is required", http.StatusBadRequest)
		return
	}

	updated, err := h.Service.Reassign(r.Context(), id, req.OperatorID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// AssignTechnician handles PATCH /api/leads/{id}/technician
func (h *Handler) AssignTechnician(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req assignTechnicianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "the 'technicianId' field is required", http.StatusBadRequest)
		return
	}

	updated, err := h.Service.AssignTechnician(r.Context(), id, req.TechnicianID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// BulkAssign handles POST /api/leads/bulk-assign
func (h *Handler) BulkAssign(w http.ResponseWriter, r *http.Request) {
	var req bulkAssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.Service.BulkAssign(r.Context(), req.LeadIDs, req.OperatorID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// BulkAssignUnassigned handles POST /api/leads/bulk-assign-unassigned
func (h *Handler) BulkAssignUnassigned(w http.ResponseWriter, r *http.Request) {
	var req bulkAssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.Service.BulkAssignUnassigned(r.Context(), req.LeadIDs, req.OperatorID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// LogCall handles POST /api/leads/{id}/call-logs
func (h *Handler) LogCall(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	id, ok := leadID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req logCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	entry, err := h.Service.LogCall(r.Context(), id, req.Notes, actor)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// LogCallLater handles POST /api/leads/{id}/call-laters
func (h *Handler) LogCallLater(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	id, ok := leadID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req callLaterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := h.Service.LogCallLater(r.Context(), id, req.Date, req.Reason, req.Notes, actor)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}
