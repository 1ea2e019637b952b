package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/fehu/internal/ledger"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// publish, if non-nil, is called after every successful mutation with the
// record kind and id so the SSE broker can notify connected clients.
func NewRouter(svc *ledger.Service, authEnabled bool, token string, sseHandler http.Handler, publish func(kind, verb, id string)) chi.Router {
	h := NewHandler(svc, publish)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Expenses CRUD.
	r.Get("/expenses", h.ListExpenses)
	r.Post("/expenses", h.CreateExpense)
	r.Get("/expenses/{id}", h.GetExpense)
	r.Put("/expenses/{id}", h.UpdateExpense)
	r.Delete("/expenses/{id}", h.DeleteExpense)

	// Work entries CRUD.
	r.Get("/work-entries", h.ListWorkEntries)
	r.Get("/work-entries/unbilled", h.ListUnbilledWork)
	r.Post("/work-entries", h.CreateWorkEntry)
	r.Get("/work-entries/{id}", h.GetWorkEntry)
	r.Put("/work-entries/{id}", h.UpdateWorkEntry)
	r.Delete("/work-entries/{id}", h.DeleteWorkEntry)

	// Travel entries CRUD.
	r.Get("/travel-entries", h.ListTravelEntries)
	r.Post("/travel-entries", h.CreateTravelEntry)
	r.Get("/travel-entries/{id}", h.GetTravelEntry)
	r.Put("/travel-entries/{id}", h.UpdateTravelEntry)
	r.Delete("/travel-entries/{id}", h.DeleteTravelEntry)

	// Time entries CRUD plus the timer state machine.
	r.Get("/time-entries", h.ListTimeEntries)
	r.Post("/time-entries", h.CreateTimeEntry)
	r.Get("/time-entries/{id}", h.GetTimeEntry)
	r.Put("/time-entries/{id}", h.UpdateTimeEntry)
	r.Delete("/time-entries/{id}", h.DeleteTimeEntry)
	r.Post("/time-entries/{id}/timer/start", h.StartTimer)
	r.Post("/time-entries/{id}/timer/stop", h.StopTimer)
	r.Post("/time-entries/{id}/timer/discard", h.DiscardTimer)
	r.Get("/timer", h.RunningTimer)

	// Meetings CRUD.
	r.Get("/meetings", h.ListMeetings)
	r.Post("/meetings", h.CreateMeeting)
	r.Get("/meetings/{id}", h.GetMeeting)
	r.Put("/meetings/{id}", h.UpdateMeeting)
	r.Delete("/meetings/{id}", h.DeleteMeeting)

	// Contacts CRUD.
	r.Get("/contacts", h.ListContacts)
	r.Post("/contacts", h.CreateContact)
	r.Get("/contacts/{id}", h.GetContact)
	r.Put("/contacts/{id}", h.UpdateContact)
	r.Delete("/contacts/{id}", h.DeleteContact)

	// Invoices and tax rates.
	r.Get("/invoices", h.ListInvoices)
	r.Post("/invoices", h.CreateInvoice)
	r.Post("/invoices/preview", h.PreviewInvoice)
	r.Get("/invoices/{id}", h.GetInvoice)
	r.Put("/invoices/{id}", h.UpdateInvoice)
	r.Delete("/invoices/{id}", h.DeleteInvoice)
	r.Get("/invoices/{id}/render", h.RenderInvoice)
	r.Get("/tax-rates", h.ListTaxRates)
	r.Post("/tax-rates", h.SaveTaxRate)
	r.Delete("/tax-rates/{id}", h.DeleteTaxRate)

	// Calendar projections.
	r.Get("/calendar/events", h.CalendarEvents)
	r.Post("/calendar/events", h.CalendarEventsWithLocal)
	r.Delete("/calendar/events/{id}", h.DeleteCalendarEvent)
	r.Get("/calendar/agenda", h.Agenda)
	r.Get("/calendar/upcoming", h.Upcoming)
	r.Get("/calendar/insights", h.Insights)

	// Summary.
	r.Get("/summary", h.Summary)

	// Registry-backed configuration.
	r.Get("/config/entry-types", h.ConfigEntryTypes)
	r.Get("/config/payment-methods", h.ConfigPaymentMethods)
	r.Get("/config/categories", h.ConfigCategories)
	r.Get("/config/app", h.ConfigApp)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
