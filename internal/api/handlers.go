// Package api exposes the HTTP handlers for the killboard service. Handlers
// translate requests into repository calls and repository results into JSON;
// they hold no business rules of their own.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"example.com/killboard/internal/domain"
	"example.com/killboard/internal/validation"
)

// Handler serves the account and activity routes.
type Handler struct {
	accounts   domain.AccountRepository
	activities domain.ActivityRepository
}

// NewHandler constructs a Handler over the given repositories.
func NewHandler(accounts domain.AccountRepository, activities domain.ActivityRepository) *Handler {
	return &Handler{accounts: accounts, activities: activities}
}

// RegisterRoutes attaches every route to mux. Longer patterns win on the
// mux, so the fixed search, page and threshold paths take precedence over
// the id-suffixed subtrees.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/accounts", h.handleAccounts)
	mux.HandleFunc("/v1/accounts/search", h.handleAccountSearch)
	mux.HandleFunc("/v1/accounts/threshold/", h.handleAccountThreshold)
	mux.HandleFunc("/v1/accounts/", h.handleAccountByID)
	mux.HandleFunc("/v1/activities", h.handleActivities)
	mux.HandleFunc("/v1/activities/page", h.handleActivityPage)
	mux.HandleFunc("/v1/activities/search", h.handleActivitySearch)
	mux.HandleFunc("/v1/activities/", h.handleActivityByID)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// StatusResponse acknowledges a create.
type StatusResponse struct {
	Status string `json:"status"`
}

// AffectedResponse reports how many rows a write touched. Zero is a valid
// outcome for updates and deletes that matched nothing.
type AffectedResponse struct {
	Affected int64 `json:"affected"`
}

type errorResponse struct {
	Type   string                  `json:"type"`
	Detail string                  `json:"detail"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, errorResponse{Type: code, Detail: detail})
}

func writeFieldErrors(w http.ResponseWriter, fields []validation.FieldError) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Type:   "validation_failed",
		Detail: "validation failed",
		Fields: fields,
	})
}

// pathID extracts the numeric id that follows prefix, writing a 400 and
// returning ok=false when it is missing or not an integer.
func pathID(w http.ResponseWriter, r *http.Request, prefix, noun string) (int64, bool) {
	raw := strings.TrimPrefix(r.URL.Path, prefix)
	if raw == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing "+noun+" id")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", noun+" id must be an integer")
		return 0, false
	}
	return id, true
}
