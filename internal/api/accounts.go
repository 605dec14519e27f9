package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"example.com/killboard/internal/domain"
	"example.com/killboard/internal/validation"
)

// AccountRequest is the payload for creating or replacing an account. The
// secret is accepted on the way in and never serialized back out.
type AccountRequest struct {
	Handle     string `json:"handle" validate:"required"`
	Secret     string `json:"secret" validate:"required"`
	GivenName  string `json:"given_name" validate:"required,alpha"`
	FamilyName string `json:"family_name" validate:"required,alpha"`
}

// Validate applies the account field rules.
func (r AccountRequest) Validate() error {
	return validation.Struct(r)
}

// AccountView is the JSON projection of an account.
type AccountView struct {
	ID         int64  `json:"id"`
	Handle     string `json:"handle"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

// AccountListResponse wraps account listings.
type AccountListResponse struct {
	Items []AccountView `json:"items"`
}

func toAccountViews(accounts []domain.Account) []AccountView {
	views := make([]AccountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, AccountView{
			ID:         a.ID,
			Handle:     a.Handle,
			GivenName:  a.GivenName,
			FamilyName: a.FamilyName,
		})
	}
	return views
}

func (h *Handler) handleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createAccount(w, r)
	case http.MethodGet:
		h.listAccounts(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
	var req AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeFieldErrors(w, validation.Fields(err))
		return
	}

	if err := h.accounts.Create(r.Context(), req.Handle, req.Secret, req.GivenName, req.FamilyName); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, StatusResponse{Status: "created"})
}

// listAccounts serves the full listing, or a handle search when the handle
// query parameter is present. An empty fragment matches every account.
func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	var (
		accounts []domain.Account
		err      error
	)
	if q := r.URL.Query(); q.Has("handle") {
		accounts, err = h.accounts.SearchByHandle(r.Context(), q.Get("handle"))
	} else {
		accounts, err = h.accounts.ListAll(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, AccountListResponse{Items: toAccountViews(accounts)})
}

// handleAccountSearch matches accounts on handle, given name and family name
// at once. Absent parameters behave as empty fragments and match everything.
func (h *Handler) handleAccountSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	q := r.URL.Query()
	accounts, err := h.accounts.SearchByDetails(r.Context(), q.Get("handle"), q.Get("given_name"), q.Get("family_name"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, AccountListResponse{Items: toAccountViews(accounts)})
}

func (h *Handler) handleAccountByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "/v1/accounts/", "account")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.replaceAccount(w, r, id)
	case http.MethodDelete:
		h.removeAccount(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) replaceAccount(w http.ResponseWriter, r *http.Request, id int64) {
	var req AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeFieldErrors(w, validation.Fields(err))
		return
	}

	affected, err := h.accounts.Replace(r.Context(), id, req.Handle, req.Secret, req.GivenName, req.FamilyName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, AffectedResponse{Affected: affected})
}

func (h *Handler) removeAccount(w http.ResponseWriter, r *http.Request, id int64) {
	affected, err := h.accounts.Remove(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, AffectedResponse{Affected: affected})
}

// handleAccountThreshold bulk-deletes accounts whose summed kills stay under
// the threshold given in the path.
func (h *Handler) handleAccountThreshold(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/v1/accounts/threshold/")
	threshold, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "threshold must be an integer")
		return
	}

	affected, err := h.accounts.RemoveBelowThreshold(r.Context(), threshold)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, AffectedResponse{Affected: affected})
}
