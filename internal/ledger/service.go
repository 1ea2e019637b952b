// Package ledger coordinates the store, the config registries and the
// rule engines behind the dashboard API.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/calendar"
	"github.com/starford/fehu/internal/models"
	"github.com/starford/fehu/internal/registry"
	"github.com/starford/fehu/internal/storage"
	"github.com/starford/fehu/internal/store"
)

// Service is the application service layer.
type Service struct {
	db  *store.DB
	reg *registry.Registry
	exp storage.Exporter

	// NowFunc overrides the clock in tests. Nil means time.Now.
	NowFunc func() time.Time
}

// NewService creates a new Service. exp may be nil when invoice export
// is disabled.
func NewService(db *store.DB, reg *registry.Registry, exp storage.Exporter) *Service {
	return &Service{db: db, reg: reg, exp: exp}
}

func (s *Service) now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc()
	}
	return time.Now()
}

// Today returns the device-local calendar date.
func (s *Service) Today() string {
	return s.now().Format("2006-01-02")
}

// Registry exposes the config registries to the API layer.
func (s *Service) Registry() *registry.Registry { return s.reg }

// lookups builds the id→label resolvers events and filters share.
// Client labels come from the contacts table, payment method names from
// the registry; both fall back to the raw id for unknown values.
func (s *Service) lookups() (calendar.Lookups, error) {
	contacts, err := s.db.ListContacts()
	if err != nil {
		return calendar.Lookups{}, err
	}
	names := make(map[string]string, len(contacts))
	for _, c := range contacts {
		names[c.ID] = c.Name
	}
	return calendar.Lookups{
		ClientLabel: func(id string) string {
			if n, ok := names[id]; ok {
				return n
			}
			return id
		},
		PaymentMethodName: s.reg.PaymentMethodName,
	}, nil
}

// Events returns the normalized, filtered events whose date falls in
// [from, to]. Invoices are fetched unscoped because a paid-date event
// can land inside the range while its due date is outside it; the final
// date check trims both projections to the range.
func (s *Service) Events(ctx context.Context, from, to string, f calendar.Filter, local []calendar.Event) ([]calendar.Event, error) {
	src, lk, err := s.sources(from, to, local)
	if err != nil {
		return nil, err
	}
	events := f.Apply(calendar.Normalize(src, lk), lk)

	out := make([]calendar.Event, 0, len(events))
	for _, ev := range events {
		if (from == "" || ev.Date >= from) && (to == "" || ev.Date <= to) {
			out = append(out, ev)
		}
	}
	return out, nil
}

// Calendar projects the filtered events onto one cell per day in [from, to].
func (s *Service) Calendar(ctx context.Context, from, to string, f calendar.Filter, local []calendar.Event) ([]calendar.Day, error) {
	events, err := s.Events(ctx, from, to, f, local)
	if err != nil {
		return nil, err
	}
	return calendar.Project(events, from, to), nil
}

// Agenda returns the non-empty days among the next `days` starting today.
func (s *Service) Agenda(ctx context.Context, days int, f calendar.Filter, local []calendar.Event) ([]calendar.Day, error) {
	if days <= 0 {
		days = 14
	}
	today := s.Today()
	end, _ := time.Parse("2006-01-02", today)
	to := end.AddDate(0, 0, days-1).Format("2006-01-02")

	events, err := s.Events(ctx, today, to, f, local)
	if err != nil {
		return nil, err
	}
	return calendar.Agenda(events, today, days), nil
}

// Upcoming projects the sidebar list: unpaid invoices whatever their
// date plus meetings today-or-later, urgency-ranked.
func (s *Service) Upcoming(ctx context.Context) ([]calendar.UpcomingItem, error) {
	src, lk, err := s.sources("", "", nil)
	if err != nil {
		return nil, err
	}
	events := calendar.Normalize(src, lk)
	return calendar.Upcoming(events, s.Today()), nil
}

// Insights derives the month-scoped aggregates over filtered events.
func (s *Service) Insights(ctx context.Context, year, month int, f calendar.Filter) (calendar.Insights, error) {
	from := fmt.Sprintf("%04d-%02d-01", year, month)
	lastDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
	to := lastDay.Format("2006-01-02")

	events, err := s.Events(ctx, from, to, f, nil)
	if err != nil {
		return calendar.Insights{}, err
	}
	return calendar.ComputeInsights(events, year, month), nil
}

// Summary is the backend-owned range aggregate.
type Summary struct {
	WorkDone    float64 `json:"workDone"`
	Expenses    float64 `json:"expenses"`
	Income      float64 `json:"income"`
	Net         float64 `json:"net"`
	HoursWorked float64 `json:"hoursWorked"`
}

// Summarize computes the aggregate for [from, to]: earned work amounts,
// spent expense amounts, income from invoices paid in the range, their
// net, and total hours across work and time entries.
func (s *Service) Summarize(ctx context.Context, from, to string) (Summary, error) {
	var sum Summary

	work, err := s.db.ListWorkEntries(from, to)
	if err != nil {
		return sum, err
	}
	for _, w := range work {
		sum.WorkDone += w.Amount
		sum.HoursWorked += w.Hours
	}

	expenses, err := s.db.ListExpenses(from, to)
	if err != nil {
		return sum, err
	}
	for _, e := range expenses {
		sum.Expenses += e.Amount
	}

	times, err := s.db.ListTimeEntries(from, to)
	if err != nil {
		return sum, err
	}
	for _, t := range times {
		sum.HoursWorked += t.DurationMinutes / 60
	}

	invoices, err := s.db.ListInvoices("", "")
	if err != nil {
		return sum, err
	}
	rates, err := s.taxRates()
	if err != nil {
		return sum, err
	}
	for _, inv := range invoices {
		if inv.Status != models.InvoiceStatusPaid || inv.PaidDate == "" {
			continue
		}
		if (from != "" && inv.PaidDate < from) || (to != "" && inv.PaidDate > to) {
			continue
		}
		sum.Income += s.invoiceTotal(inv, rates)
	}

	sum.Net = sum.Income - sum.Expenses
	return sum, nil
}

// DeleteEvent dispatches a calendar delete on the event id prefix.
// Derived invoice projections are read-only and rejected with guidance.
func (s *Service) DeleteEvent(ctx context.Context, eventID string) error {
	kind, id, ok := strings.Cut(eventID, "-")
	if !ok || id == "" {
		return apperr.ErrNotFound
	}
	switch kind {
	case "expense":
		return s.db.DeleteExpense(id)
	case "work":
		return s.db.DeleteWorkEntry(id)
	case "travel":
		return s.db.DeleteTravelEntry(id)
	case "time":
		return s.db.DeleteTimeEntry(id)
	case "meeting":
		return s.db.DeleteMeeting(id)
	case "invoice", "income":
		return apperr.ErrDerivedRecord
	default:
		return apperr.ErrNotFound
	}
}

// sources fetches all record arrays feeding one normalization pass.
func (s *Service) sources(from, to string, local []calendar.Event) (calendar.Sources, calendar.Lookups, error) {
	lk, err := s.lookups()
	if err != nil {
		return calendar.Sources{}, calendar.Lookups{}, err
	}

	var src calendar.Sources
	src.Local = local
	if src.Expenses, err = s.db.ListExpenses(from, to); err != nil {
		return src, lk, err
	}
	if src.Invoices, err = s.db.ListInvoices("", ""); err != nil {
		return src, lk, err
	}
	if src.Work, err = s.db.ListWorkEntries(from, to); err != nil {
		return src, lk, err
	}
	if src.Travel, err = s.db.ListTravelEntries(from, to); err != nil {
		return src, lk, err
	}
	if src.Time, err = s.db.ListTimeEntries(from, to); err != nil {
		return src, lk, err
	}
	if src.Meetings, err = s.db.ListMeetings(from, to); err != nil {
		return src, lk, err
	}
	if src.TaxRates, err = s.db.ListTaxRates(); err != nil {
		return src, lk, err
	}
	return src, lk, nil
}
