package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/ledger"
	"github.com/starford/fehu/internal/models"
	"github.com/starford/fehu/internal/timer"
)

// Handler holds API route handlers.
type Handler struct {
	svc     *ledger.Service
	publish func(kind, verb, id string)
}

// NewHandler creates a new Handler. publish may be nil.
func NewHandler(svc *ledger.Service, publish func(kind, verb, id string)) *Handler {
	return &Handler{svc: svc, publish: publish}
}

func (h *Handler) notify(kind, verb, id string) {
	if h.publish != nil {
		h.publish(kind, verb, id)
	}
}

func dateRange(r *http.Request) (from, to string) {
	q := r.URL.Query()
	return q.Get("from"), q.Get("to")
}

// ListExpenses handles GET /api/expenses.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	from, to := dateRange(r)
	items, err := h.svc.Store().ListExpenses(from, to)
	if err != nil {
		writeServiceError(w, "list expenses", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": items})
}

// GetExpense handles GET /api/expenses/{id}.
func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Store().GetExpense(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "get expense", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// CreateExpense handles POST /api/expenses.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req models.Expense
	if !decodeBody(w, r, &req) {
		return
	}
	e, err := h.svc.CreateExpense(r.Context(), req)
	if err != nil {
		writeServiceError(w, "create expense", err)
		return
	}
	h.notify("expense", "created", e.ID)
	writeJSON(w, http.StatusCreated, e)
}

// UpdateExpense handles PUT /api/expenses/{id}.
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req models.Expense
	if !decodeBody(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	e, err := h.svc.UpdateExpense(r.Context(), req)
	if err != nil {
		writeServiceError(w, "update expense", err)
		return
	}
	h.notify("expense", "updated", e.ID)
	writeJSON(w, http.StatusOK, e)
}

// DeleteExpense handles DELETE /api/expenses/{id}.
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Store().DeleteExpense(id); err != nil {
		writeServiceError(w, "delete expense", err)
		return
	}
	h.notify("expense", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListWorkEntries handles GET /api/work-entries.
func (h *Handler) ListWorkEntries(w http.ResponseWriter, r *http.Request) {
	from, to := dateRange(r)
	items, err := h.svc.Store().ListWorkEntries(from, to)
	if err != nil {
		writeServiceError(w, "list work entries", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workEntries": items})
}

// ListUnbilledWork handles GET /api/work-entries/unbilled.
func (h *Handler) ListUnbilledWork(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.UnbilledWork(r.Context())
	if err != nil {
		writeServiceError(w, "list unbilled work", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workEntries": items})
}

// GetWorkEntry handles GET /api/work-entries/{id}.
func (h *Handler) GetWorkEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.Store().GetWorkEntry(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "get work entry", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// CreateWorkEntry handles POST /api/work-entries.
func (h *Handler) CreateWorkEntry(w http.ResponseWriter, r *http.Request) {
	var req models.WorkEntry
	if !decodeBody(w, r, &req) {
		return
	}
	entry, err := h.svc.CreateWorkEntry(r.Context(), req)
	if err != nil {
		writeServiceError(w, "create work entry", err)
		return
	}
	h.notify("work", "created", entry.ID)
	writeJSON(w, http.StatusCreated, entry)
}

// UpdateWorkEntry handles PUT /api/work-entries/{id}.
func (h *Handler) UpdateWorkEntry(w http.ResponseWriter, r *http.Request) {
	var req models.WorkEntry
	if !decodeBody(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	entry, err := h.svc.UpdateWorkEntry(r.Context(), req)
	if err != nil {
		writeServiceError(w, "update work entry", err)
		return
	}
	h.notify("work", "updated", entry.ID)
	writeJSON(w, http.StatusOK, entry)
}

// DeleteWorkEntry handles DELETE /api/work-entries/{id}.
func (h *Handler) DeleteWorkEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Store().DeleteWorkEntry(id); err != nil {
		writeServiceError(w, "delete work entry", err)
		return
	}
	h.notify("work", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListTravelEntries handles GET /api/travel-entries.
func (h *Handler) ListTravelEntries(w http.ResponseWriter, r *http.Request) {
	from, to := dateRange(r)
	items, err := h.svc.Store().ListTravelEntries(from, to)
	if err != nil {
		writeServiceError(w, "list travel entries", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"travelEntries": items})
}

// GetTravelEntry handles GET /api/travel-entries/{id}.
func (h *Handler) GetTravelEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.Store().GetTravelEntry(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "get travel entry", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// CreateTravelEntry handles POST /api/travel-entries.
//
// When withExpense is set and the paired expense insert fails after the
// travel entry was stored, the response is still 201 with a warning so
// the client knows the primary record exists.
func (h *Handler) CreateTravelEntry(w http.ResponseWriter, r *http.Request) {
	var req TravelEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	entry, err := h.svc.CreateTravelEntry(r.Context(), req.TravelEntry, req.WithExpense)
	if err != nil {
		var partial *apperr.PartialError
		if errors.As(err, &partial) {
			h.notify("travel", "created", entry.ID)
			writeJSON(w, http.StatusCreated, map[string]any{
				"travelEntry": entry,
				"warning":     partial.Error(),
			})
			return
		}
		writeServiceError(w, "create travel entry", err)
		return
	}
	h.notify("travel", "created", entry.ID)
	writeJSON(w, http.StatusCreated, entry)
}

// UpdateTravelEntry handles PUT /api/travel-entries/{id}.
func (h *Handler) UpdateTravelEntry(w http.ResponseWriter, r *http.Request) {
	var req models.TravelEntry
	if !decodeBody(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	entry, err := h.svc.UpdateTravelEntry(r.Context(), req)
	if err != nil {
		writeServiceError(w, "update travel entry", err)
		return
	}
	h.notify("travel", "updated", entry.ID)
	writeJSON(w, http.StatusOK, entry)
}

// DeleteTravelEntry handles DELETE /api/travel-entries/{id}.
func (h *Handler) DeleteTravelEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Store().DeleteTravelEntry(id); err != nil {
		writeServiceError(w, "delete travel entry", err)
		return
	}
	h.notify("travel", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListTimeEntries handles GET /api/time-entries.
func (h *Handler) ListTimeEntries(w http.ResponseWriter, r *http.Request) {
	from, to := dateRange(r)
	items, err := h.svc.Store().ListTimeEntries(from, to)
	if err != nil {
		writeServiceError(w, "list time entries", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"timeEntries": items})
}

// GetTimeEntry handles GET /api/time-entries/{id}.
func (h *Handler) GetTimeEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.Store().GetTimeEntry(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "get time entry", err)
		return
	}
	writeJSON(w, http.StatusOK, h.timerResponse(*entry))
}

// CreateTimeEntry handles POST /api/time-entries.
func (h *Handler) CreateTimeEntry(w http.ResponseWriter, r *http.Request) {
	var req TimeEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	entry, err := h.svc.CreateTimeEntry(r.Context(), req.ToModel(""))
	if err != nil {
		writeServiceError(w, "create time entry", err)
		return
	}
	h.notify("time", "created", entry.ID)
	writeJSON(w, http.StatusCreated, entry)
}

// UpdateTimeEntry handles PUT /api/time-entries/{id}.
func (h *Handler) UpdateTimeEntry(w http.ResponseWriter, r *http.Request) {
	var req TimeEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	entry, err := h.svc.UpdateTimeEntry(r.Context(), req.ToModel(chi.URLParam(r, "id")))
	if err != nil {
		writeServiceError(w, "update time entry", err)
		return
	}
	h.notify("time", "updated", entry.ID)
	writeJSON(w, http.StatusOK, entry)
}

// DeleteTimeEntry handles DELETE /api/time-entries/{id}.
func (h *Handler) DeleteTimeEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Store().DeleteTimeEntry(id); err != nil {
		writeServiceError(w, "delete time entry", err)
		return
	}
	h.notify("time", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) timerResponse(e models.TimeEntry) TimerResponse {
	return TimerResponse{
		Entry:          e,
		State:          timer.StateOf(e).String(),
		ElapsedMinutes: h.svc.TimerElapsedMinutes(e),
	}
}

// StartTimer handles POST /api/time-entries/{id}/timer/start.
//
// Starting while another entry's timer runs is a conflict: the target
// entry is left untouched and the running entry is reported back.
func (h *Handler) StartTimer(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.StartTimer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, apperr.ErrTimerRunning) && entry != nil {
			writeJSON(w, http.StatusConflict, TimerConflictResponse{
				Error:        "another timer is already running",
				RunningEntry: *entry,
			})
			return
		}
		writeServiceError(w, "start timer", err)
		return
	}
	h.notify("time", "updated", entry.ID)
	writeJSON(w, http.StatusOK, h.timerResponse(*entry))
}

// StopTimer handles POST /api/time-entries/{id}/timer/stop.
func (h *Handler) StopTimer(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.StopTimer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "stop timer", err)
		return
	}
	h.notify("time", "updated", entry.ID)
	writeJSON(w, http.StatusOK, h.timerResponse(*entry))
}

// DiscardTimer handles POST /api/time-entries/{id}/timer/discard.
func (h *Handler) DiscardTimer(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.DiscardTimer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "discard timer", err)
		return
	}
	h.notify("time", "updated", entry.ID)
	writeJSON(w, http.StatusOK, h.timerResponse(*entry))
}

// RunningTimer handles GET /api/timer, reporting the single running
// timer if one exists.
func (h *Handler) RunningTimer(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.Store().RunningTimeEntry()
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]any{"running": false})
			return
		}
		writeServiceError(w, "get running timer", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"running": true,
		"timer":   h.timerResponse(*entry),
	})
}

// ListMeetings handles GET /api/meetings.
func (h *Handler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	from, to := dateRange(r)
	items, err := h.svc.Store().ListMeetings(from, to)
	if err != nil {
		writeServiceError(w, "list meetings", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"meetings": items})
}

// GetMeeting handles GET /api/meetings/{id}.
func (h *Handler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Store().GetMeeting(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "get meeting", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// CreateMeeting handles POST /api/meetings.
func (h *Handler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req models.Meeting
	if !decodeBody(w, r, &req) {
		return
	}
	m, err := h.svc.CreateMeeting(r.Context(), req)
	if err != nil {
		writeServiceError(w, "create meeting", err)
		return
	}
	h.notify("meeting", "created", m.ID)
	writeJSON(w, http.StatusCreated, m)
}

// UpdateMeeting handles PUT /api/meetings/{id}.
func (h *Handler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	var req models.Meeting
	if !decodeBody(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	m, err := h.svc.UpdateMeeting(r.Context(), req)
	if err != nil {
		writeServiceError(w, "update meeting", err)
		return
	}
	h.notify("meeting", "updated", m.ID)
	writeJSON(w, http.StatusOK, m)
}

// DeleteMeeting handles DELETE /api/meetings/{id}.
func (h *Handler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Store().DeleteMeeting(id); err != nil {
		writeServiceError(w, "delete meeting", err)
		return
	}
	h.notify("meeting", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListContacts handles GET /api/contacts.
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Store().ListContacts()
	if err != nil {
		writeServiceError(w, "list contacts", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"contacts": items})
}

// GetContact handles GET /api/contacts/{id}.
func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Store().GetContact(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "get contact", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateContact handles POST /api/contacts.
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req models.Contact
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := h.svc.CreateContact(r.Context(), req)
	if err != nil {
		writeServiceError(w, "create contact", err)
		return
	}
	h.notify("contact", "created", c.ID)
	writeJSON(w, http.StatusCreated, c)
}

// UpdateContact handles PUT /api/contacts/{id}.
func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var req models.Contact
	if !decodeBody(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	c, err := h.svc.UpdateContact(r.Context(), req)
	if err != nil {
		writeServiceError(w, "update contact", err)
		return
	}
	h.notify("contact", "updated", c.ID)
	writeJSON(w, http.StatusOK, c)
}

// DeleteContact handles DELETE /api/contacts/{id}.
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Store().DeleteContact(id); err != nil {
		writeServiceError(w, "delete contact", err)
		return
	}
	h.notify("contact", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
