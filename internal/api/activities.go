package api

import (
	"encoding/json"
	"net/http"

	"example.com/killboard/internal/domain"
	"example.com/killboard/internal/validation"
)

// ActivityRequest is the payload for creating or replacing an activity.
// Kills is a pointer so an explicit zero survives the required check.
type ActivityRequest struct {
	AccountID int64  `json:"account_id" validate:"required,gt=0"`
	Kills     *int   `json:"kills" validate:"required,min=0"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
}

// Validate applies the activity field rules.
func (r ActivityRequest) Validate() error {
	return validation.Struct(r)
}

// ActivityView is the JSON projection of an activity. Dates travel as
// YYYY-MM-DD strings.
type ActivityView struct {
	ID        int64  `json:"id"`
	AccountID int64  `json:"account_id"`
	Kills     int    `json:"kills"`
	Date      string `json:"date"`
}

// ActivityListResponse wraps activity listings.
type ActivityListResponse struct {
	Items []ActivityView `json:"items"`
}

func toActivityViews(activities []domain.Activity) []ActivityView {
	views := make([]ActivityView, 0, len(activities))
	for _, a := range activities {
		views = append(views, ActivityView{
			ID:        a.ID,
			AccountID: a.AccountID,
			Kills:     a.Kills,
			Date:      a.Date.Format(validation.DateLayout),
		})
	}
	return views
}

func (h *Handler) handleActivities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createActivity(w, r)
	case http.MethodGet:
		h.listActivities(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) createActivity(w http.ResponseWriter, r *http.Request) {
	var req ActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeFieldErrors(w, validation.Fields(err))
		return
	}

	date, err := validation.ParseDate(req.Date)
	if err != nil {
		writeFieldErrors(w, []validation.FieldError{{Field: "date", Error: "must be a date in YYYY-MM-DD format"}})
		return
	}

	if err := h.activities.Create(r.Context(), req.AccountID, *req.Kills, date); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, StatusResponse{Status: "created"})
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.activities.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ActivityListResponse{Items: toActivityViews(activities)})
}

func (h *Handler) handleActivityByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "/v1/activities/", "activity")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.replaceActivity(w, r, id)
	case http.MethodDelete:
		h.removeActivity(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) replaceActivity(w http.ResponseWriter, r *http.Request, id int64) {
	var req ActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeFieldErrors(w, validation.Fields(err))
		return
	}

	date, err := validation.ParseDate(req.Date)
	if err != nil {
		writeFieldErrors(w, []validation.FieldError{{Field: "date", Error: "must be a date in YYYY-MM-DD format"}})
		return
	}

	affected, err := h.activities.Replace(r.Context(), id, req.AccountID, *req.Kills, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, AffectedResponse{Affected: affected})
}

func (h *Handler) removeActivity(w http.ResponseWriter, r *http.Request, id int64) {
	affected, err := h.activities.Remove(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, AffectedResponse{Affected: affected})
}

// handleActivityPage serves one page of the activity listing. Both limit and
// offset are required.
func (h *Handler) handleActivityPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	q := r.URL.Query()
	limit, limitErr := validation.RequireNonNegativeInt("limit", q.Get("limit"))
	offset, offsetErr := validation.RequireNonNegativeInt("offset", q.Get("offset"))

	var fields []validation.FieldError
	if limitErr != nil {
		fields = append(fields, *limitErr)
	}
	if offsetErr != nil {
		fields = append(fields, *offsetErr)
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	activities, err := h.activities.Paginate(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ActivityListResponse{Items: toActivityViews(activities)})
}

// handleActivitySearch serves activities for one exact date (?date=) or an
// inclusive range (?start=&end=).
func (h *Handler) handleActivitySearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	q := r.URL.Query()
	if q.Has("date") {
		date, ferr := validation.RequireDate("date", q.Get("date"))
		if ferr != nil {
			writeFieldErrors(w, []validation.FieldError{*ferr})
			return
		}

		activities, err := h.activities.SearchByDate(r.Context(), date)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, ActivityListResponse{Items: toActivityViews(activities)})
		return
	}

	start, startErr := validation.RequireDate("start", q.Get("start"))
	end, endErr := validation.RequireDate("end", q.Get("end"))

	var fields []validation.FieldError
	if startErr != nil {
		fields = append(fields, *startErr)
	}
	if endErr != nil {
		fields = append(fields, *endErr)
	}
	if len(fields) == 0 && end.Before(start) {
		fields = append(fields, validation.FieldError{Field: "end", Error: "must not be before start"})
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	activities, err := h.activities.SearchByDateRange(r.Context(), start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ActivityListResponse{Items: toActivityViews(activities)})
}
