package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// CalendarEvents handles GET /api/calendar/events.
func (h *Handler) CalendarEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	events, err := h.svc.Events(r.Context(), q.Get("from"), q.Get("to"), parseFilter(q), nil)
	if err != nil {
		writeServiceError(w, "calendar events", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// CalendarEventsWithLocal handles POST /api/calendar/events. The body
// carries the filter plus local events the client wants merged into the
// projection without persisting them.
func (h *Handler) CalendarEventsWithLocal(w http.ResponseWriter, r *http.Request) {
	var req CalendarRequest
	if !decodeBody(w, r, &req) {
		return
	}
	days, err := h.svc.Calendar(r.Context(), req.From, req.To, req.Filter, req.Local)
	if err != nil {
		writeServiceError(w, "calendar projection", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": days})
}

// DeleteCalendarEvent handles DELETE /api/calendar/events/{id}. The id
// prefix determines the backing record; derived invoice events are
// rejected with guidance.
func (h *Handler) DeleteCalendarEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteEvent(r.Context(), id); err != nil {
		writeServiceError(w, "delete calendar event", err)
		return
	}
	h.notify("calendar", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// Agenda handles GET /api/calendar/agenda. A missing or non-positive
// days parameter falls through to the service default of 14.
func (h *Handler) Agenda(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	days, _ := strconv.Atoi(q.Get("days"))
	out, err := h.svc.Agenda(r.Context(), days, parseFilter(q), nil)
	if err != nil {
		writeServiceError(w, "agenda", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": out})
}

// Upcoming handles GET /api/calendar/upcoming.
func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Upcoming(r.Context())
	if err != nil {
		writeServiceError(w, "upcoming", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Insights handles GET /api/calendar/insights. Year and month default
// to the current month.
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, _ := strconv.Atoi(q.Get("year"))
	month, _ := strconv.Atoi(q.Get("month"))
	if year == 0 || month == 0 {
		today := h.svc.Today()
		year, _ = strconv.Atoi(today[:4])
		month, _ = strconv.Atoi(today[5:7])
	}
	ins, err := h.svc.Insights(r.Context(), year, month, parseFilter(q))
	if err != nil {
		writeServiceError(w, "insights", err)
		return
	}
	writeJSON(w, http.StatusOK, ins)
}

// Summary handles GET /api/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	from, to := dateRange(r)
	if from == "" || to == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("from and to are required"))
		return
	}
	sum, err := h.svc.Summarize(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, "summary", err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// ConfigEntryTypes handles GET /api/config/entry-types.
func (h *Handler) ConfigEntryTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"entryTypes": h.svc.Registry().EntryTypes()})
}

// ConfigPaymentMethods handles GET /api/config/payment-methods.
func (h *Handler) ConfigPaymentMethods(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"paymentMethods": h.svc.Registry().PaymentMethods()})
}

// ConfigCategories handles GET /api/config/categories.
func (h *Handler) ConfigCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": h.svc.Registry().Categories()})
}

// ConfigApp handles GET /api/config/app.
func (h *Handler) ConfigApp(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Registry().AppDefaults())
}
